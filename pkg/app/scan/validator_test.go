package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-hfs/internal/device"
	"github.com/deploymenttheory/go-hfs/pkg/app"
)

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, (&Request{Target: app.ImageTarget{Path: "disk.img", Partition: device.AutoPartition}}).Validate())
	assert.Error(t, (&Request{Target: app.ImageTarget{Partition: device.AutoPartition}}).Validate())
	assert.Error(t, (&Request{Target: app.ImageTarget{Path: "disk.img", Partition: -2}}).Validate())
}

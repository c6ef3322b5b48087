package dump

import (
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

func newProgressBar(size int64) (*pb.ProgressBar, error) {
	bar := pb.New64(size)
	bar.Set(pb.Bytes, true)
	bar.SetTemplateString(`{{counters . }} {{bar . | green }} {{percent .}} {{speed . "%s/s"}}`)
	bar.SetRefreshRate(200 * time.Millisecond)
	bar.SetWidth(80)
	if err := bar.Err(); err != nil {
		return nil, err
	}
	return bar, nil
}

// showProgress reports whether stderr is an interactive terminal that is not carrying
// structured log output
func showProgress(logger *logrus.Logger) bool {
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

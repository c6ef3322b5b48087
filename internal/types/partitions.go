package types

// Apple Partition Map constants
const (
	APMDriverDescriptorSignature uint16 = 0x4552 // 'ER'
	APMEntrySignature            uint16 = 0x504D // 'PM'

	APMDefaultBlockSize = 512
	APMEntrySize        = 512

	APMNameOffset  = 16
	APMTypeOffset  = 48
	APMStringSize  = 32
	APMMaxEntries  = 256
	APMTypeHFS     = "Apple_HFS"
	APMTypeHFSX    = "Apple_HFSX"
	APMTypeMapName = "Apple_partition_map"
)

// GPTHFSPlusPartitionType is the GPT partition type GUID of HFS+ and HFSX partitions
const GPTHFSPlusPartitionType = "48465300-0000-11AA-AA11-00306543ECAC"

// MBRHFSPartitionType is the MBR partition type byte of HFS and HFS+ partitions
const MBRHFSPartitionType byte = 0xAF

// PartitionScheme names the partition map a partition was found in
type PartitionScheme string

const (
	SchemeNone PartitionScheme = "none"
	SchemeAPM  PartitionScheme = "apm"
	SchemeGPT  PartitionScheme = "gpt"
	SchemeMBR  PartitionScheme = "mbr"
)

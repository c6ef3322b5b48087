package dmg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Image is the virtual disk of a UDIF image
type Image struct {
	r       io.ReaderAt
	trailer *Trailer
	tables  []*BlockTable
	chunks  []Chunk
	size    int64

	mu          sync.Mutex
	cachedChunk int
	cached      []byte
}

// Open decodes the trailer and block tables of the UDIF image in r. It returns an error
// wrapping ErrNotUDIF when r has no koly trailer.
func Open(r io.ReaderAt, size int64) (*Image, error) {
	trailer, err := readTrailer(r, size)
	if err != nil {
		return nil, err
	}
	if trailer.SegmentCount > 1 {
		return nil, fmt.Errorf("segmented image (%d segments): %w", trailer.SegmentCount, ErrUnsupportedChunk)
	}
	tables, err := readBlockTables(r, trailer)
	if err != nil {
		return nil, err
	}

	img := &Image{r: r, trailer: trailer, tables: tables, cachedChunk: -1}
	for _, t := range tables {
		img.chunks = append(img.chunks, t.Chunks...)
	}
	sort.Slice(img.chunks, func(i, j int) bool { return img.chunks[i].Sector < img.chunks[j].Sector })

	sectors := trailer.SectorCount
	for _, c := range img.chunks {
		if c.End() > sectors {
			sectors = c.End()
		}
	}
	img.size = int64(sectors * SectorSize)
	return img, nil
}

// Trailer returns the decoded koly trailer
func (img *Image) Trailer() *Trailer { return img.trailer }

// BlockTables returns the partitions described by the image
func (img *Image) BlockTables() []*BlockTable { return img.tables }

// Size returns the size of the virtual disk
func (img *Image) Size() int64 { return img.size }

// ReadAt reads from the virtual disk. Sectors no chunk covers read as zeroes.
func (img *Image) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= img.size {
		return 0, io.EOF
	}
	want := len(p)
	if rest := img.size - off; int64(want) > rest {
		p = p[:rest]
	}

	n := 0
	for n < len(p) {
		pos := uint64(off) + uint64(n)
		sector := pos / SectorSize
		i := sort.Search(len(img.chunks), func(i int) bool { return img.chunks[i].End() > sector })

		if i == len(img.chunks) || img.chunks[i].Sector > sector {
			// Hole up to the next chunk
			end := uint64(img.size)
			if i < len(img.chunks) {
				end = img.chunks[i].Sector * SectorSize
			}
			m := int(min(end-pos, uint64(len(p)-n)))
			clear(p[n : n+m])
			n += m
			continue
		}

		c := img.chunks[i]
		within := pos - c.Sector*SectorSize
		avail := c.SectorCount*SectorSize - within
		m := int(min(avail, uint64(len(p)-n)))
		if err := img.readChunk(i, c, within, p[n:n+m]); err != nil {
			return n, err
		}
		n += m
	}
	if n < want {
		return n, io.EOF
	}
	return n, nil
}

func (img *Image) readChunk(i int, c Chunk, within uint64, dst []byte) error {
	switch c.Type {
	case ChunkZeroFill, ChunkIgnore:
		clear(dst)
		return nil
	case ChunkRaw:
		_, err := img.r.ReadAt(dst, int64(c.DataOffset+within))
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	case ChunkZlib:
		data, err := img.inflate(i, c)
		if err != nil {
			return err
		}
		if uint64(len(data)) < within+uint64(len(dst)) {
			return fmt.Errorf("chunk at sector %d inflated to %d bytes: %w", c.Sector, len(data), io.ErrUnexpectedEOF)
		}
		copy(dst, data[within:])
		return nil
	default:
		return fmt.Errorf("chunk type 0x%08X at sector %d: %w", c.Type, c.Sector, ErrUnsupportedChunk)
	}
}

// inflate decompresses a zlib chunk, keeping the most recent one
func (img *Image) inflate(i int, c Chunk) ([]byte, error) {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.cachedChunk == i {
		return img.cached, nil
	}

	compressed := make([]byte, c.DataLength)
	if _, err := img.r.ReadAt(compressed, int64(c.DataOffset)); err != nil {
		return nil, fmt.Errorf("failed to read chunk at sector %d: %w", c.Sector, err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("chunk at sector %d: %w", c.Sector, err)
	}
	defer zr.Close()
	out := make([]byte, c.SectorCount*SectorSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("failed to inflate chunk at sector %d: %w", c.Sector, err)
	}

	img.cachedChunk, img.cached = i, out
	return out, nil
}

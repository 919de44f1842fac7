package scan

import (
	"io"
	"os"
)

// Sample sizes for the head+tail read. Files no larger than the two combined
// are read whole.
const (
	HeadSize = 4096
	TailSize = 4096
)

// ReadSample reads the first HeadSize bytes and the last TailSize bytes of a
// file, concatenated. Files of at most HeadSize+TailSize bytes are returned
// in full.
//
// I/O failures never fail the caller: the sample degrades to empty and
// classification proceeds on metadata alone.
func ReadSample(path string) []byte {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	if info.Size() <= HeadSize+TailSize {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return data
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	sample := make([]byte, HeadSize+TailSize)
	if _, err := io.ReadFull(f, sample[:HeadSize]); err != nil {
		return nil
	}
	if _, err := f.Seek(-TailSize, io.SeekEnd); err != nil {
		return nil
	}
	if _, err := io.ReadFull(f, sample[HeadSize:]); err != nil {
		return nil
	}
	return sample
}

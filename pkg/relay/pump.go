package relay

import (
	"errors"
	"io"
	"net/http"

	"github.com/loykin/apismoke/internal/constants"
)

// PumpResult says why a pump stopped.
type PumpResult int

const (
	// SourceDone means the upstream body reached EOF.
	SourceDone PumpResult = iota
	// ConsumerGone means a downstream write failed, normally a closed browser tab.
	ConsumerGone
	// SourceFailed means reading the upstream body returned a non-EOF error.
	SourceFailed
)

func (r PumpResult) String() string {
	switch r {
	case SourceDone:
		return "source_done"
	case ConsumerGone:
		return "consumer_gone"
	case SourceFailed:
		return "source_failed"
	default:
		return "unknown"
	}
}

// PumpStats is what Pump reports on return.
type PumpStats struct {
	Result PumpResult
	Bytes  int64
	Chunks int
	// Err is the read or write error that ended the pump, nil on SourceDone.
	Err error
}

// Pump copies src to dst one read at a time, flushing after every write so each
// chunk reaches the consumer as soon as it arrives. The buffer is bounded to
// StreamChunkSize regardless of how much the source produces.
func Pump(dst io.Writer, src io.Reader) PumpStats {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, constants.StreamChunkSize)
	var stats PumpStats
	for {
		n, err := src.Read(buf)
		if n > 0 {
			written, writeErr := dst.Write(buf[:n])
			stats.Bytes += int64(written)
			if writeErr != nil {
				stats.Result = ConsumerGone
				stats.Err = writeErr
				return stats
			}
			stats.Chunks++
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				stats.Result = SourceDone
				return stats
			}
			stats.Result = SourceFailed
			stats.Err = err
			return stats
		}
	}
}

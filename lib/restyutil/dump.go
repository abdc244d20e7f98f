package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives every exchange recorded by DumpExchanges.
type Output interface {
	Write(id string, contents string)
}

// DumpExchanges writes each request the client completes, along with its
// response, to output. Ids are sequential in completion order.
func DumpExchanges(client *resty.Client, output Output) {
	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%05d", counter.Add(1))
		output.Write(id, formatExchange(res))
		return nil
	})
}

// DirOutput writes each exchange to its own file in a directory.
type DirOutput struct {
	directory string
}

// NewDirOutput empties dir, creating it if needed.
func NewDirOutput(dir string) (DirOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return DirOutput{}, err
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return DirOutput{}, err
	}
	return DirOutput{directory: dir}, nil
}

func (o DirOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".http"), []byte(contents), 0644)
	if err != nil {
		slog.Warn("failed to write exchange", "id", id, "err", err)
	}
}

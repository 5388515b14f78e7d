package ops

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// RetentionWindow is how long a receipt survives after its last update.
const RetentionWindow = 30 * 24 * time.Hour

// Registry is the durable store of operation receipts.
//
// The store assumes a single canvasctl process owns it for the duration of
// one command. Two concurrent processes race on the read-modify-write cycle
// and the last writer wins; there is no file locking.
type Registry struct {
	fs        afero.Fs
	path      string
	retention time.Duration
	now       func() time.Time
	log       hclog.Logger
}

// NewRegistry creates a registry over the given store path.
func NewRegistry(fs afero.Fs, path string, log hclog.Logger) *Registry {
	return &Registry{
		fs:        fs,
		path:      path,
		retention: RetentionWindow,
		now:       time.Now,
		log:       log.Named("ops"),
	}
}

// List returns every retained receipt. A missing store is an empty list,
// never an error. Expired receipts are filtered from the view; the file
// itself is rewritten on the next mutation.
func (reg *Registry) List() ([]Receipt, error) {
	receipts, err := reg.read()
	if err != nil {
		return nil, err
	}
	return reg.prune(receipts), nil
}

// Get returns the receipt with the given op_id.
func (reg *Registry) Get(opID string) (Receipt, error) {
	receipts, err := reg.List()
	if err != nil {
		return Receipt{}, err
	}
	for _, r := range receipts {
		if r.OpID == opID {
			return r, nil
		}
	}
	return Receipt{}, errcode.Newf(errcode.ResourceNotFound, "operation %s not found", opID).
		WithSuggestion("run 'canvasctl ops list' to see retained operations")
}

// Append adds a new receipt, pruning expired entries along the way.
func (reg *Registry) Append(r Receipt) error {
	receipts, err := reg.read()
	if err != nil {
		return err
	}
	receipts = append(reg.prune(receipts), r)
	return reg.write(receipts)
}

// Update replaces the receipt whose op_id matches. When no entry matches,
// the pruned list is rewritten unchanged. Replacing a terminal receipt is
// rejected: COMPLETED and FAILED never change again.
func (reg *Registry) Update(r Receipt) error {
	receipts, err := reg.read()
	if err != nil {
		return err
	}
	receipts = reg.prune(receipts)
	for i, existing := range receipts {
		if existing.OpID != r.OpID {
			continue
		}
		if existing.Status.Terminal() {
			return errcode.Newf(errcode.Conflict,
				"operation %s is already %s", r.OpID, existing.Status)
		}
		receipts[i] = r
		break
	}
	return reg.write(receipts)
}

// read parses the full store, one receipt per line.
func (reg *Registry) read() ([]Receipt, error) {
	data, err := afero.ReadFile(reg.fs, reg.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errcode.Newf(errcode.InternalError, "failed to read operation registry %s", reg.path).WithCause(err)
	}

	var receipts []Receipt
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var r Receipt
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, errcode.Newf(errcode.InternalError,
				"corrupt operation registry %s: line %d", reg.path, line).WithCause(err)
		}
		receipts = append(receipts, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errcode.Newf(errcode.InternalError, "failed to scan operation registry %s", reg.path).WithCause(err)
	}
	return receipts, nil
}

// prune drops receipts whose updated_at is older than the retention window.
func (reg *Registry) prune(receipts []Receipt) []Receipt {
	cutoff := reg.now().Add(-reg.retention)
	kept := receipts[:0]
	for _, r := range receipts {
		if r.UpdatedAt.Before(cutoff) {
			reg.log.Debug("pruning expired operation", "op_id", r.OpID, "updated_at", r.UpdatedAt)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// write rewrites the full store atomically: temp file in the same
// directory, then rename over the original.
func (reg *Registry) write(receipts []Receipt) error {
	var buf bytes.Buffer
	for _, r := range receipts {
		b, err := json.Marshal(r)
		if err != nil {
			return errcode.Newf(errcode.InternalError, "failed to marshal receipt %s", r.OpID).WithCause(err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}

	if err := reg.fs.MkdirAll(filepath.Dir(reg.path), 0o755); err != nil {
		return errcode.Newf(errcode.InternalError, "failed to create registry directory").WithCause(err)
	}

	tmp := reg.path + ".tmp"
	if err := afero.WriteFile(reg.fs, tmp, buf.Bytes(), 0o600); err != nil {
		return errcode.Newf(errcode.InternalError, "failed to write operation registry").WithCause(err)
	}
	if err := reg.fs.Rename(tmp, reg.path); err != nil {
		reg.fs.Remove(tmp)
		return errcode.New(errcode.InternalError, "failed to replace operation registry").WithCause(err)
	}
	return nil
}

// DefaultPath returns the registry location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".canvasctl", "operations.ndjson"), nil
}

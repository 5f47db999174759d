package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/tm9657/jwk-vault/interfaces"
)

// IPFSDistribution implements the distribution store on an IPFS node using
// the mutable files (MFS) API, so artifacts keep their deterministic paths
// and can be served through the node's gateway.
type IPFSDistribution struct {
	shell       *shell.Shell
	host        string
	port        string
	basePath    string
	log         *slog.Logger
	locationURI string
}

// NewIPFSDistribution creates an IPFS distribution store connected to the
// node at host:port. Artifacts are written below basePath in MFS.
func NewIPFSDistribution(host, port, basePath string, log *slog.Logger) (*IPFSDistribution, error) {
	apiURL := fmt.Sprintf("%s:%s", host, port)
	basePath = "/" + strings.Trim(basePath, "/")

	return &IPFSDistribution{
		shell:       shell.NewShell(apiURL),
		host:        host,
		port:        port,
		basePath:    basePath,
		log:         log,
		locationURI: fmt.Sprintf("ipfs://%s%s", apiURL, basePath),
	}, nil
}

// Put writes data to the MFS path for objectPath, creating parents and
// truncating any previous content.
func (b *IPFSDistribution) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	start := time.Now()

	if !b.shell.IsUp() {
		return interfaces.ErrBackendUnavailable
	}

	mfsPath := b.mfsPath(objectPath)
	err := b.shell.FilesWrite(ctx, mfsPath, bytes.NewReader(data),
		shell.FilesWrite.Create(true),
		shell.FilesWrite.Parents(true),
		shell.FilesWrite.Truncate(true))
	if err != nil {
		b.log.Error("Failed to write artifact to IPFS",
			slog.String("path", mfsPath),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to write artifact to IPFS: %w", err)
	}

	b.log.Debug("Stored artifact in IPFS",
		slog.String("path", mfsPath),
		slog.Int("size", len(data)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// Delete removes the MFS path for objectPath. A missing file is not an error.
func (b *IPFSDistribution) Delete(ctx context.Context, objectPath string) error {
	if !b.shell.IsUp() {
		return interfaces.ErrBackendUnavailable
	}

	mfsPath := b.mfsPath(objectPath)
	if err := b.shell.FilesRm(ctx, mfsPath, true); err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil
		}
		return fmt.Errorf("failed to remove artifact from IPFS: %w", err)
	}

	b.log.Debug("Removed artifact from IPFS", slog.String("path", mfsPath))
	return nil
}

// Available checks if the IPFS node is accessible.
func (b *IPFSDistribution) Available(ctx context.Context) bool {
	return b.shell.IsUp()
}

// Name returns a unique identifier for this storage backend.
func (b *IPFSDistribution) Name() string {
	return fmt.Sprintf("ipfs-%s", b.host)
}

// LocationURI returns the URI that identifies this storage backend.
func (b *IPFSDistribution) LocationURI() string { return b.locationURI }

func (b *IPFSDistribution) mfsPath(objectPath string) string {
	return b.basePath + "/" + strings.TrimPrefix(objectPath, "/")
}

package outbound

import "context"

type MirrorParams struct {
	BaseName   string
	Audio      []byte
	Transcript string
}

// ArtifactMirrorPort uploads a finished narration to remote storage. Wiring
// it is optional; the pipeline treats mirror failures as non-fatal.
type ArtifactMirrorPort interface {
	Mirror(ctx context.Context, params MirrorParams) (string, error)
}

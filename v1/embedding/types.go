package embedding

import "context"

// Type selects an embedding model family.
type Type string

const (
	TypeCLIP Type = "clip"
	TypeDINO Type = "dino"
)

// Result holds the vectors computed for one input image. A nil Result in a
// batch response means the service failed on that image; a nil vector means
// that embedding type was not requested or not produced.
type Result struct {
	CLIP []float32 `json:"clip_embedding,omitempty"`
	DINO []float32 `json:"dino_embedding,omitempty"`
}

// Vector returns the vector for the given type, nil when absent.
func (r *Result) Vector(t Type) []float32 {
	if r == nil {
		return nil
	}
	switch t {
	case TypeCLIP:
		return r.CLIP
	case TypeDINO:
		return r.DINO
	}
	return nil
}

// Provider is the contract an embedding backend fulfills.
// EmbedBatch preserves input order; entries may be nil for failed images.
type Provider interface {
	EmbedBatch(ctx context.Context, images [][]byte, types []Type) ([]*Result, error)
}

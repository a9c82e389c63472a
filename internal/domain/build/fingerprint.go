package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one exported page: the bytes it was rendered from
// and the renderer that produced them.
type Fingerprint struct {
	PageHash     string
	TemplateHash string
	RenderHash   string
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.PageHash))
	h.Write([]byte(f.TemplateHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

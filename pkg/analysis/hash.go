package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// ComputeDataHash returns a stable fingerprint of the snapshot inputs,
// used to detect whether a cached or exported timeline is current.
func ComputeDataHash(prs []model.PullRequest, issues []model.Issue, edges []model.DependencyEdge) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encode errors are impossible for these types; ignore them so the
	// hash stays a total function.
	_ = enc.Encode(prs)
	_ = enc.Encode(issues)
	_ = enc.Encode(edges)
	return hex.EncodeToString(h.Sum(nil))
}

package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeArtifactID computes a deterministic artifact_id using SHA256.
// Formula: SHA256(model_name|seed|encoder_json|model_json|selected...)
// Returns the first 12 hex characters: enough to tell artifacts apart
// in logs and reports.
func ComputeArtifactID(modelName string, seed int64, encoderJSON, modelJSON []byte, selected []int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|", modelName, seed)
	h.Write(encoderJSON)
	h.Write([]byte("|"))
	h.Write(modelJSON)
	for _, idx := range selected {
		fmt.Fprintf(h, "|%d", idx)
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// ComputeDataVersion computes a short SHA256 over customer_id|label
// pairs so a report can state exactly which labeled dataset produced
// it. Pairs must be passed in a deterministic order.
func ComputeDataVersion(pairs []string) string {
	h := sha256.New()
	for _, p := range pairs {
		h.Write([]byte(p))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

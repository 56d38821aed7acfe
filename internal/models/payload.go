package models

import "time"

// Payload is the additive output of one enrichment stage. Consumers must
// tolerate an empty payload; a failed stage leaves an empty one behind
// rather than aborting the run.
type Payload map[string]any

// GetString reads a string value out of a payload, returning "" when the
// key is absent or the wrong type.
func (p Payload) GetString(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

// GetFloat reads a numeric value out of a payload.
func (p Payload) GetFloat(key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// GetStrings reads a string slice out of a payload.
func (p Payload) GetStrings(key string) []string {
	if v, ok := p[key].([]string); ok {
		return v
	}
	return nil
}

// RunContext is the mutable accumulator for one pipeline run. The
// orchestrator owns it exclusively; stages read the snapshot plus payloads
// finalized by strictly earlier stages, and never each other's in-progress
// state. It is never persisted; only derived run records are.
type RunContext struct {
	Snapshot *MarketSnapshot
	PostType PostType
	Today    time.Time

	payloads map[string]Payload
}

// NewRunContext builds a context around an immutable snapshot.
func NewRunContext(snapshot *MarketSnapshot, postType PostType, today time.Time) *RunContext {
	return &RunContext{
		Snapshot: snapshot,
		PostType: postType,
		Today:    today,
		payloads: make(map[string]Payload),
	}
}

// SetPayload finalizes a stage's output. Called only by the stage runner.
func (rc *RunContext) SetPayload(stage string, p Payload) {
	if p == nil {
		p = Payload{}
	}
	rc.payloads[stage] = p
}

// Payload returns a stage's finalized output. A stage that failed, or has
// not run, yields an empty payload rather than nil or an error.
func (rc *RunContext) Payload(stage string) Payload {
	if p, ok := rc.payloads[stage]; ok {
		return p
	}
	return Payload{}
}

// HasPayload reports whether the named stage finalized a non-empty payload.
func (rc *RunContext) HasPayload(stage string) bool {
	p, ok := rc.payloads[stage]
	return ok && len(p) > 0
}

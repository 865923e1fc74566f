package llm

import "context"

type purposeKey struct{}

// WithPurpose labels requests made with ctx, e.g. "question-gen". The label
// ends up on the stored request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

package sanitizer

import "context"

// SanitizeStructure walks decoded JSON (maps, slices, strings) and
// sanitizes every string leaf. Non-string scalars pass through untouched.
// The aggregate result sums detections across all leaves.
func (s *Scanner) SanitizeStructure(ctx context.Context, data any) (any, Result) {
	agg := Result{}
	out := s.walk(ctx, data, &agg)
	return out, agg
}

func (s *Scanner) walk(ctx context.Context, data any, agg *Result) any {
	switch v := data.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = s.walk(ctx, val, agg)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = s.walk(ctx, val, agg)
		}
		return out
	case string:
		res := s.Sanitize(ctx, v)
		agg.Detections = append(agg.Detections, res.Detections...)
		agg.SuspectedFakes = append(agg.SuspectedFakes, res.SuspectedFakes...)
		agg.HoneytokenHits += res.HoneytokenHits
		agg.Discarded = agg.Discarded || res.Discarded
		return res.Text
	default:
		return data
	}
}

//go:build !js_eval

package lokalize

// NewJSEvaluator returns nil unless the binary is built with the js_eval
// tag; NewEvaluator reports ErrUnknownEngine for "js" in that case.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool { return false }

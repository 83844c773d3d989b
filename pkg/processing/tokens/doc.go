// Package tokens provides token estimation for prompt and response text.
//
// Estimation is a character-count approximation, not real tokenization: the
// estimate is the number of characters divided by a fixed characters-per-token
// ratio, rounded up. With the default ratio of 4:
//
//	tokens.EstimateTokens("")      // 0
//	tokens.EstimateTokens("abcd")  // 1
//	tokens.EstimateTokens("abcde") // 2
//
// Characters are Unicode code points, so multi-byte text is not over-counted.
//
// # Usage
//
// The package-level EstimateTokens uses the default ratio. A SimpleEstimator
// carries a configured ratio and also accepts untyped values:
//
//	estimator := tokens.NewSimpleEstimator(&cfg.Tokens)
//
//	n, err := estimator.EstimateValue(upload)
//	if errors.Is(err, tokens.ErrTokenEstimation) {
//		// input was not text
//	}
//
// Estimators hold no mutable state and are safe for concurrent use.
package tokens

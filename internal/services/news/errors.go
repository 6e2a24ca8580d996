package news

import "errors"

// ErrNoNews is returned when a full pagination pass yields zero digests
// for a symbol. It is the only news error surfaced to callers; upstream
// failures mid-pagination are absorbed.
var ErrNoNews = errors.New("no news found for symbol")

package opencv

import "errors"

// ErrUnavailable - бинарь собран без тега opencv
var ErrUnavailable = errors.New("opencv support not compiled in (build with -tags opencv)")

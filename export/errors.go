package export

import "errors"

var ErrUnsupportedFormat = errors.New("unsupported export format")

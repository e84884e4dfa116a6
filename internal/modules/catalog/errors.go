package catalog

import "errors"

var ErrCatalogUnavailable = errors.New("catalog is temporarily unavailable")

// Package pagination provides page-window normalization helpers.
package pagination

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// ClampPageIndex normalizes a zero-based page index.
func ClampPageIndex(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

// Offset returns the row offset for a zero-based page index.
func Offset(pageIndex, pageSize int) int {
	return ClampPageIndex(pageIndex) * pageSize
}

// PageCount returns the number of pages needed for total items.
func PageCount(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (total + size - 1) / size
}

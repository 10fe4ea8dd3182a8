package repository

import "gorm.io/gorm"

// newestFirst 按时间字段倒序，id 作为同一时间戳下的稳定次序
func newestFirst(q *gorm.DB, column string, limit int) *gorm.DB {
	q = q.Order(column + " DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

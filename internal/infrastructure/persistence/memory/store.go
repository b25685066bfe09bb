// Package memory 内存仓储实现
//
// database.driver=memory时替代MySQL，也是各层单元测试的仓储。
// 行为与MySQL实现保持一致：唯一约束、软删除、作者按名字复用、ID自增。
package memory

import (
	"sync"
	"time"
)

// Store 所有内存仓储共享的数据（对应一个数据库）
// 图书仓储需要读取作者和分类，所以放在同一把锁下
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[uint]userRow
	categories map[uint]categoryRow
	authors    map[uint]authorRow
	books      map[uint]bookRow

	nextUserID     uint
	nextCategoryID uint
	nextAuthorID   uint
	nextBookID     uint
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{
		now:        time.Now,
		users:      make(map[uint]userRow),
		categories: make(map[uint]categoryRow),
		authors:    make(map[uint]authorRow),
		books:      make(map[uint]bookRow),
	}
}

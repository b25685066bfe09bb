package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiebiao/rebook/internal/client"
)

// ErrDeleteCancelled 用户取消了删除，请求没有发出
var ErrDeleteCancelled = errors.New("delete cancelled")

// Confirmer 删除前的交互确认
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc 函数适配Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Deleter 删除接口，*client.Client实现了该接口
type Deleter interface {
	DeleteBook(ctx context.Context, sess client.Session, id uint) error
}

// Inventory 图书管理员的库存操作
type Inventory struct {
	deleter Deleter
	sess    client.Session
	confirm Confirmer
}

// NewInventory 创建库存操作
func NewInventory(deleter Deleter, sess client.Session, confirm Confirmer) *Inventory {
	return &Inventory{deleter: deleter, sess: sess, confirm: confirm}
}

// DeleteBook 确认后删除图书
// 用户拒绝返回ErrDeleteCancelled；成功后不修改本地快照，下一次轮询后列表中不再出现
func (inv *Inventory) DeleteBook(ctx context.Context, id uint) error {
	ok, err := inv.confirm.Confirm(ctx, fmt.Sprintf("确定删除图书 #%d 吗？", id))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeleteCancelled
	}
	return inv.deleter.DeleteBook(ctx, inv.sess, id)
}

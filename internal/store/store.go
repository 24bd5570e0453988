package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// 数据层哨兵错误。唯一约束与外键约束由 MySQL 强制执行，
// 这里统一翻译成调用方可以 errors.Is 判断的错误。
var (
	// ErrDuplicate 唯一约束冲突（用户名或邮箱已存在）。
	ErrDuplicate = errors.New("duplicate entry")
	// ErrForeignKey 外键约束冲突（employee_id 指向的员工不存在）。
	ErrForeignKey = errors.New("referenced record not found")
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

// translateError 将 MySQL 驱动错误翻译为哨兵错误，其余原样返回。
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry:
			return ErrDuplicate
		case mysqlErrNoReferencedRow:
			return ErrForeignKey
		}
	}
	return err
}

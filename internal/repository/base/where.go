package base

import (
	"fmt"
	"strings"
)

// Where собирает условия WHERE с позиционными параметрами $n
type Where struct {
	conds []string
	args  []any
}

func NewWhere(conds ...string) *Where {
	return &Where{conds: conds}
}

// Add добавляет условие вида "col = $%d", номер подставляется автоматически
func (w *Where) Add(cond string, arg any) *Where {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
	return w
}

// Raw добавляет условие без параметров
func (w *Where) Raw(cond string) *Where {
	w.conds = append(w.conds, cond)
	return w
}

func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Paginate добавляет LIMIT/OFFSET и возвращает готовый хвост запроса и аргументы
func (w *Where) Paginate(limit, offset int) (string, []any) {
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)+1, len(w.args)+2), args
}

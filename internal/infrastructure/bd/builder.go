package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"user-service/pkg/types"
)

// ApplyListParams применяет точные фильтры, сортировку и страницу.
// Поля вне allowedMap молча отбрасываются: имена колонок не приходят от клиента.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	builder = ApplyFilters(builder, filter, allowedMap)

	for jsonField, dir := range filter.Sort {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(dir) == "desc" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(filter.Limit)
		}
		builder = builder.Offset(filter.Offset)
	}

	return builder
}

// ApplyFilters — только WHERE-часть, её же использует COUNT-запрос.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{dbCol: val})
	}
	return builder
}

// likeEscaper экранирует метасимволы LIKE, поиск идёт по буквальной подстроке.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ApplySearch — регистронезависимый поиск подстроки хотя бы в одной из колонок.
func ApplySearch(builder sq.SelectBuilder, search string, columns []string) sq.SelectBuilder {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return builder
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.Expr(col+` ILIKE ? ESCAPE '\'`, pattern))
	}
	return builder.Where(or)
}

// ApplyRange — включительный диапазон BETWEEN lo AND hi.
func ApplyRange(builder sq.SelectBuilder, column string, lo, hi int) sq.SelectBuilder {
	return builder.Where(sq.Expr(column+" BETWEEN ? AND ?", lo, hi))
}

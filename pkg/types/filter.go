package types

// Filter — разобранные параметры списка: поиск, точные фильтры, сортировка, страница.
// Ключи Filter и Sort — имена из запроса, в колонки их переводит белый список репозитория.
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          uint64                 `json:"limit"`
	Offset         uint64                 `json:"offset"`
	WithPagination bool                   `json:"with_pagination"`
}

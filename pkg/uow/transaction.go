package uow

// Transaction отдает репозитории, привязанные к соединению conn открытой транзакции.
type Transaction[C any] struct {
	repositories map[RepositoryName]RepositoryFactory[C]
	conn         C
}

func NewTransaction[C any](conn C, repositories map[RepositoryName]RepositoryFactory[C]) *Transaction[C] {
	return &Transaction[C]{
		repositories: repositories,
		conn:         conn,
	}
}

// Get возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (t *Transaction[C]) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.repositories[name]; ok {
		return repo(t.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetAs возвращает зарегистрированный репозиторий с именем name приведенный к типу T
// или ошибки ErrRepositoryNotRegistered в случае не найденного репозитория с указанным name, ErrInvalidRepositoryType
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	repo, err := t.Get(name)
	var res T
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}

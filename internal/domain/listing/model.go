package listing

// Page es la forma paginada que devuelve el backend (Spring Page).
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Params es cualquier objeto de parámetros con clave de dependencia explícita.
// Dos valores con el mismo contenido deben producir la misma Key.
type Params interface {
	Key() string
}

type State[T any] struct {
	Items         []T    `json:"items"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int64  `json:"totalElements"`

	// Err es el error crudo del último fetch (para mapear 401/502 en handlers).
	Err error `json:"-"`
}

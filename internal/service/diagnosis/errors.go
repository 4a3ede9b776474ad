package diagnosis

import "errors"

var (
	// ErrInvalidRequest означает некорректный ввод клиента (HTTP 400).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamFailure означает ошибку кодирования или вызова модели (HTTP 500).
	ErrUpstreamFailure = errors.New("upstream failure")
)

// Сообщения, которые уходят клиенту в поле detail.
const (
	MsgMissingInput     = "Please provide a description or an image."
	MsgInvalidImageType = "Invalid file type. Only images are allowed."
	MsgImageTooLarge    = "Image dimensions are too large."
	MsgUpstreamPrefix   = "Failed to get a response from the AI model. Error: "
)

// Error ошибка с человекочитаемым сообщением для клиента.
// errors.Is(err, ErrInvalidRequest) / errors.Is(err, ErrUpstreamFailure) определяет класс.
type Error struct {
	kind    error
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.kind }

// InvalidRequest создаёт ошибку класса ErrInvalidRequest.
func InvalidRequest(msg string) *Error {
	return &Error{kind: ErrInvalidRequest, Message: msg}
}

// UpstreamFailure оборачивает ошибку модели или кодирования.
func UpstreamFailure(err error) *Error {
	return &Error{kind: ErrUpstreamFailure, Message: MsgUpstreamPrefix + err.Error(), Err: err}
}

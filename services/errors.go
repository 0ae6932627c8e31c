package services

// ErrorKind стабильный машиночитаемый вид ошибки сервиса.
// HTTP-слой отображает вид в статус-код, сервисы о статусах не знают.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation" // Неверная форма или диапазон входных данных
	ErrKindConflict   ErrorKind = "conflict"   // Нарушение уникальности
	ErrKindReference  ErrorKind = "reference"  // Ссылка на несуществующую сущность
	ErrKindNotFound   ErrorKind = "not_found"  // Сущность не найдена
	ErrKindStorage    ErrorKind = "storage"    // Ошибка записи/чтения файла
	ErrKindQuery      ErrorKind = "query"      // Ошибка работы с базой данных
)

// ServiceError представляет ошибку сервисного слоя с видом и сообщением
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error // Исходная ошибка, если есть
}

// Error реализует интерфейс error
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap возвращает исходную ошибку
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func validationError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindValidation, Message: message}
}

func conflictError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindConflict, Message: message}
}

func referenceError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindReference, Message: message}
}

func notFoundError(message string) *ServiceError {
	return &ServiceError{Kind: ErrKindNotFound, Message: message}
}

func storageError(message string, err error) *ServiceError {
	return &ServiceError{Kind: ErrKindStorage, Message: message, Err: err}
}

func queryError(message string, err error) *ServiceError {
	return &ServiceError{Kind: ErrKindQuery, Message: message, Err: err}
}

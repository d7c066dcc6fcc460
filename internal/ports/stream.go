package ports

import "context"

// EntryHandler — обработчик одной записи потока.
// Ошибка обработчика изолируется слушателем: логируется, запись пропускается,
// цикл продолжает работу.
type EntryHandler func(ctx context.Context, entryID string, fields map[string]string) error

// StreamListener — фоновый слушатель потока.
// Инвариант: не более одного активного цикла на экземпляр.
type StreamListener interface {
	// Start — запускает цикл чтения в фоновой горутине.
	// Повторный вызов при уже работающем слушателе возвращает ErrAlreadyRunning.
	Start(handler EntryHandler) error

	// Stop — кооперативная остановка: снимает контекст и ждёт выхода цикла
	// не дольше настроенного таймаута. Идемпотентен.
	Stop()
}

// StreamPublisher — публикация записи в поток.
type StreamPublisher interface {
	// Publish — добавляет запись и возвращает идентификатор, присвоенный хранилищем.
	Publish(ctx context.Context, fields map[string]string) (string, error)
}

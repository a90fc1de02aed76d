// Package draw реализует жеребьёвку клуба обмена подарками.
//
// Для списка участников и пар прошлого года Compute строит случайную перестановку
// без неподвижных точек: каждый участник (ResponsibleId) дарит подарок другому
// (BirthdayPersonId). Действуют два ограничения:
//
//  1. никто не дарит подарок самому себе (никогда не ослабляется);
//  2. никто не повторяет получателя прошлого года.
//
// Сначала выполняется до maxAttempts случайных перемешиваний с обоими ограничениями.
// Если ни одно не подошло, второе ограничение снимается целиком и попытки повторяются
// с тем же бюджетом; такой результат помечается Relaxed. Если не помог и второй уровень,
// возвращается domain.ErrDrawUnsatisfiable.
//
// Пакет не хранит состояния и не выполняет ввода-вывода, кроме чтения случайных байт,
// поэтому функции можно вызывать конкурентно.
package draw

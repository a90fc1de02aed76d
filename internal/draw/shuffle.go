package draw

import (
	"encoding/binary"
	"fmt"
	"io"
)

// shuffle перемешивает items алгоритмом Фишера–Йетса.
func shuffle[T any](src io.Reader, items []T) error {
	for i := len(items) - 1; i > 0; i-- {
		j, err := uniformIndex(src, uint32(i+1))
		if err != nil {
			return err
		}
		items[i], items[j] = items[j], items[i]
	}
	return nil
}

// uniformIndex возвращает равномерно распределённое число из [0, bound).
// 32-битные слова за пределами наибольшего кратного bound отбрасываются, чтобы не было
// смещения от взятия остатка.
func uniformIndex(src io.Reader, bound uint32) (int, error) {
	if bound == 0 {
		return 0, fmt.Errorf("uniform index: bound must be positive")
	}
	const space = uint64(1) << 32
	limit := space - space%uint64(bound)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			return 0, fmt.Errorf("read random word: %w", err)
		}
		v := uint64(binary.LittleEndian.Uint32(buf[:]))
		if v < limit {
			return int(v % uint64(bound)), nil
		}
	}
}

package domain

import "github.com/AlekseyZapadovnikov/gift-exchange/internal/models"

// CommitResponse описывает сохранённую жеребьёвку в доменной модели.
type CommitResponse struct {
	Year    int
	Relaxed bool
	Pairs   []models.Pair
}

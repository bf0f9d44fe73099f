// Package ratelimit ограничивает частоту запросов по идентичности клиента
// (обычно IP) фиксированным окном с опциональной блокировкой после
// превышения. Гейт стоит перед сервисным слоем и защищает регистрацию и
// вход от перебора номеров участников; в саму бизнес-логику он не протекает.
package ratelimit

import (
	"context"
	"time"
)

// Config задаёт параметры окна.
type Config struct {
	// MaxRequests - максимум запросов в окне.
	MaxRequests int
	// Window - длительность окна.
	Window time.Duration
	// BlockDuration - на сколько блокировать после превышения лимита.
	// Ноль - без блокировки, счётчик просто сбросится с окном.
	BlockDuration time.Duration
}

// Result - решение гейта по одному запросу.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset - момент, когда окно (или блокировка) истекает.
	Reset   time.Time
	Blocked bool
}

// Gate проверяет и учитывает запрос за один вызов.
type Gate interface {
	CheckAndRecord(ctx context.Context, identity string, cfg Config) (Result, error)
}

// Пресеты под типовые ручки.
var (
	// PresetLogin: 5 попыток за 15 минут, блокировка на час.
	PresetLogin = Config{MaxRequests: 5, Window: 15 * time.Minute, BlockDuration: time.Hour}
	// PresetRegistration: 50 регистраций в час, блокировка на час.
	PresetRegistration = Config{MaxRequests: 50, Window: time.Hour, BlockDuration: time.Hour}
	// PresetAPI: 100 запросов в минуту без блокировки.
	PresetAPI = Config{MaxRequests: 100, Window: time.Minute}
)

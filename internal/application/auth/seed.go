package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/domain/repository"
	"github.com/jhoicas/simple-api/pkg/identity"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// SeedBatchSize filas por COPY.
const SeedBatchSize = 1000

// SeedPassword contraseña de todos los usuarios sembrados (cumple la política).
const SeedPassword = "Seed1234!"

var (
	seedFirstNames = []string{"Ada", "Alan", "Grace", "Linus", "Margaret", "Dennis", "Barbara", "Ken", "Frances", "Edsger"}
	seedLastNames  = []string{"Lovelace", "Turing", "Hopper", "Torvalds", "Hamilton", "Ritchie", "Liskov", "Thompson", "Allen", "Dijkstra"}
)

// SeedReport resultado de una siembra.
type SeedReport struct {
	Requested int
	Inserted  int64
	Elapsed   time.Duration
}

// Seeder carga usuarios aleatorios para pruebas de carga.
type Seeder struct {
	writer repository.UserBulkWriter
	hasher CredentialHasher
	random io.Reader
	log    *logger.Logger
	now    func() time.Time
}

// NewSeeder construye el sembrador. Si random es nil se usa crypto/rand.Reader.
func NewSeeder(writer repository.UserBulkWriter, hasher CredentialHasher, random io.Reader, log *logger.Logger) *Seeder {
	if random == nil {
		random = rand.Reader
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{writer: writer, hasher: hasher, random: random, log: log.Component("seed"), now: time.Now}
}

// Seed inserta count usuarios en lotes y mide el tiempo total.
func (s *Seeder) Seed(ctx context.Context, count int) (SeedReport, error) {
	report := SeedReport{Requested: count}
	if count <= 0 {
		return report, nil
	}
	start := s.now()
	batch := make([]*entity.User, 0, min(count, SeedBatchSize))
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		u, err := s.randomUser()
		if err != nil {
			return report, err
		}
		batch = append(batch, u)
		if len(batch) == cap(batch) || i == count-1 {
			n, err := s.writer.InsertMany(ctx, batch)
			report.Inserted += n
			if err != nil {
				return report, err
			}
			s.log.Debug().Int64("insertados", report.Inserted).Int("total", count).Msg("lote sembrado")
			batch = batch[:0]
		}
	}
	report.Elapsed = s.now().Sub(start)
	s.log.Info().Int64("insertados", report.Inserted).Dur("duracion", report.Elapsed).Msg("siembra completada")
	return report, nil
}

func (s *Seeder) randomUser() (*entity.User, error) {
	id, err := identity.New(s.random)
	if err != nil {
		return nil, err
	}
	first, err := s.pick(seedFirstNames)
	if err != nil {
		return nil, err
	}
	last, err := s.pick(seedLastNames)
	if err != nil {
		return nil, err
	}
	days, err := s.intn(365 * 60)
	if err != nil {
		return nil, err
	}
	record, err := s.hasher.Hash(SeedPassword)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	birthday := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &entity.User{
		ID:           id,
		FirstName:    first,
		LastName:     last,
		Email:        fmt.Sprintf("%s.%s.%s@seed.local", strings.ToLower(first), strings.ToLower(last), strings.ToLower(id)),
		PasswordHash: record,
		Birthday:     &birthday,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Seeder) pick(options []string) (string, error) {
	i, err := s.intn(len(options))
	if err != nil {
		return "", err
	}
	return options[i], nil
}

func (s *Seeder) intn(n int) (int, error) {
	v, err := rand.Int(s.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("seed: fuente aleatoria: %w", err)
	}
	return int(v.Int64()), nil
}

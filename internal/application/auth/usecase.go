package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"

	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/domain/repository"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	"github.com/jhoicas/simple-api/pkg/jwt"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// TokenType tipo de token devuelto en el login.
const TokenType = "Bearer"

// dummyPassword se hashea una vez al construir el caso de uso; los logins con
// email desconocido verifican contra ese registro para igualar el tiempo de respuesta.
const dummyPassword = "dummy-password-for-timing"

// IDGenerator genera identificadores libres en el store.
type IDGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// CredentialHasher hashea y verifica registros de contraseña.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(record, candidate string) (bool, error)
	NeedsRehash(record string) bool
}

// TokenIssuer firma tokens de sesión.
type TokenIssuer interface {
	Issue(s jwt.Subject) (jwt.Token, error)
}

// Deps dependencias del caso de uso. Metrics y Log pueden ser nil.
type Deps struct {
	Users       repository.UserRepository
	IDs         IDGenerator
	Hasher      CredentialHasher
	Tokens      TokenIssuer
	PhoneRegion string
	Log         *logger.Logger
	Metrics     *metrics.AuthMetrics
	Now         func() time.Time
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil propio.
type AuthUseCase struct {
	users       repository.UserRepository
	ids         IDGenerator
	hasher      CredentialHasher
	tokens      TokenIssuer
	phoneRegion string
	log         *logger.Logger
	metrics     *metrics.AuthMetrics
	now         func() time.Time
	dummyRecord string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps) (*AuthUseCase, error) {
	if d.Users == nil || d.IDs == nil || d.Hasher == nil || d.Tokens == nil {
		return nil, fmt.Errorf("%w: dependencias de auth incompletas", domain.ErrConfiguration)
	}
	dummy, err := d.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: registro de referencia: %w", err)
	}
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &AuthUseCase{
		users:       d.Users,
		ids:         d.IDs,
		hasher:      d.Hasher,
		tokens:      d.Tokens,
		phoneRegion: d.PhoneRegion,
		log:         log.Component("auth"),
		metrics:     d.Metrics,
		now:         now,
		dummyRecord: dummy,
	}, nil
}

// Register crea un usuario con rol User y devuelve su identificador.
// Errores: *dto.ValidationError, domain.ErrDuplicateUser, domain.ErrIdentityExhausted
// o un error de persistencia.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return uc.register(ctx, in, entity.RoleUser)
}

// CreateAdmin igual que Register pero con rol Admin. Solo lo usa la CLI de administración.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return uc.register(ctx, in, entity.RoleAdmin)
}

func (uc *AuthUseCase) register(ctx context.Context, in dto.RegisterRequest, role entity.Role) (*dto.RegisterResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if verr := dto.NewValidationError(in.Validate()); verr != nil {
		uc.metrics.Registration(metrics.RegistrationInvalid)
		return nil, verr
	}
	email := NormalizeEmail(in.Email)
	phone, err := NormalizePhone(in.PhoneNumber, uc.phoneRegion)
	if err != nil {
		uc.metrics.Registration(metrics.RegistrationInvalid)
		return nil, dto.FieldError("phone_number", "número de teléfono inválido")
	}

	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, uc.registrationFailed(err, email)
	}
	if existing != nil {
		uc.metrics.Registration(metrics.RegistrationDuplicate)
		return nil, domain.ErrDuplicateUser
	}

	record, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, uc.registrationFailed(err, email)
	}
	now := uc.now().UTC()
	user := &entity.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: record,
		Birthday:     in.ParsedBirthday(),
		PhoneNumber:  phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// La comprobación del generador es orientativa: si la clave primaria choca
	// se regenera e inserta una sola vez más.
	for attempt := 1; ; attempt++ {
		id, err := uc.ids.Generate(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrIdentityExhausted) {
				uc.log.Error().Err(err).Msg("espacio de identificadores agotado")
			}
			return nil, uc.registrationFailed(err, email)
		}
		user.ID = id
		err = uc.users.Insert(ctx, user)
		switch {
		case err == nil:
			uc.metrics.Registration(metrics.RegistrationCreated)
			uc.log.Info().Str("user_id", id).Str("role", string(role)).Msg("usuario registrado")
			return &dto.RegisterResponse{ID: id}, nil
		case errors.Is(err, domain.ErrDuplicateUser):
			uc.metrics.Registration(metrics.RegistrationDuplicate)
			return nil, domain.ErrDuplicateUser
		case errors.Is(err, domain.ErrDuplicateID) && attempt == 1:
			uc.metrics.Collision()
			uc.log.Warn().Str("user_id", id).Msg("colisión de identificador en inserción, se regenera")
			continue
		default:
			return nil, uc.registrationFailed(err, email)
		}
	}
}

func (uc *AuthUseCase) registrationFailed(err error, email string) error {
	uc.metrics.Registration(metrics.RegistrationError)
	uc.log.Error().Err(err).Str("email", email).Msg("registro fallido")
	return err
}

// Login verifica email/password y emite un token. Email desconocido y contraseña
// incorrecta devuelven el mismo domain.ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if verr := dto.NewValidationError(in.Validate()); verr != nil {
		return nil, verr
	}
	email := NormalizeEmail(in.Email)
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		uc.metrics.Login(metrics.LoginError)
		uc.log.Error().Err(err).Msg("login: fallo consultando usuario")
		return nil, err
	}
	if user == nil {
		_, _ = uc.hasher.Verify(uc.dummyRecord, in.Password)
		uc.metrics.Login(metrics.LoginInvalid)
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := uc.hasher.Verify(user.PasswordHash, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptCredential) {
			uc.metrics.Login(metrics.LoginCorrupt)
			uc.log.Incident().Err(err).Str("user_id", user.ID).Msg("registro de contraseña corrupto")
			return nil, domain.ErrInvalidCredentials
		}
		uc.metrics.Login(metrics.LoginError)
		return nil, err
	}
	if !ok {
		uc.metrics.Login(metrics.LoginInvalid)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Role.Valid() {
		uc.metrics.Login(metrics.LoginCorrupt)
		uc.log.Incident().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("rol almacenado desconocido")
		return nil, domain.ErrInvalidCredentials
	}

	if uc.hasher.NeedsRehash(user.PasswordHash) {
		uc.upgradeRecord(ctx, user, in.Password)
	}

	token, err := uc.tokens.Issue(jwt.Subject{UserID: user.ID, Email: user.Email, Role: string(user.Role)})
	if err != nil {
		uc.metrics.Login(metrics.LoginError)
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("login: no se pudo emitir el token")
		return nil, err
	}
	uc.metrics.Login(metrics.LoginSuccess)
	return &dto.LoginResponse{
		Token:     token.Value,
		TokenType: TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// upgradeRecord reemplaza un hash heredado tras un login correcto. Un fallo no bloquea el login.
func (uc *AuthUseCase) upgradeRecord(ctx context.Context, user *entity.User, password string) {
	updater, ok := uc.users.(repository.CredentialUpdater)
	if !ok {
		return
	}
	record, err := uc.hasher.Hash(password)
	if err == nil {
		err = updater.UpdatePasswordHash(ctx, user.ID, record)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo migrar el hash heredado")
		return
	}
	uc.log.Info().Str("user_id", user.ID).Msg("hash heredado migrado")
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// NormalizeEmail recorta espacios y aplica case folding Unicode.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// NormalizePhone devuelve el número en E.164; vacío si no se informó.
// Los números sin prefijo internacional se interpretan en defaultRegion.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("número no válido para la región %s", phonenumbers.GetRegionCodeForNumber(num))
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// ToUserResponse convierte la entidad a DTO (sin el registro de contraseña).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Birthday:    u.Birthday,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}

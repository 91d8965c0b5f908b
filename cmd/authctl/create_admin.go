package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/internal/infrastructure/postgres"
	"github.com/jhoicas/simple-api/pkg/identity"
	"github.com/jhoicas/simple-api/pkg/jwt"
	"github.com/jhoicas/simple-api/pkg/password"
)

type createAdminOptions struct {
	email     string
	firstName string
	lastName  string
}

// NewCreateAdminCmd crea el subcomando create-admin.
func NewCreateAdminCmd() *cobra.Command {
	opts := &createAdminOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario con rol Admin",
		Long: `Crea un usuario con rol Admin aplicando las mismas validaciones que el registro público.
La contraseña se pide por terminal sin eco; si la entrada no es una terminal se lee la primera línea.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "nombre")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "apellido")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runCreateAdmin(cmd *cobra.Command, opts *createAdminOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.Print("Contraseña: ")
	secret, err := readPassword(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return oops.Code("PASSWORD_READ_FAILED").With("operation", "read password").Wrap(err)
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	issuer, err := jwt.NewIssuer(jwt.Config{
		Secret:   e.cfg.JWT.Secret,
		Issuer:   e.cfg.JWT.Issuer,
		Audience: e.cfg.JWT.Audience,
		Validity: e.cfg.JWT.Validity(),
	})
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "jwt issuer").Wrap(err)
	}
	users := postgres.NewUserRepository(e.pool)
	uc, err := auth.NewAuthUseCase(auth.Deps{
		Users:       users,
		IDs:         identity.NewGenerator(users, rand.Reader, identity.WithMaxAttempts(e.cfg.Identity.MaxAttempts)),
		Hasher:      password.NewHasher(rand.Reader),
		Tokens:      issuer,
		PhoneRegion: e.cfg.Profile.DefaultPhoneRegion,
		Log:         e.log,
	})
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "auth use case").Wrap(err)
	}

	out, err := uc.CreateAdmin(ctx, dto.RegisterRequest{
		Credentials: dto.Credentials{Email: opts.email, Password: secret},
		FirstName:   opts.firstName,
		LastName:    opts.lastName,
	})
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				cmd.PrintErrf("  %s: %s\n", field, msg)
			}
		}
		if errors.Is(err, domain.ErrDuplicateUser) {
			return oops.Code("EMAIL_EXISTS").With("email", opts.email).Wrap(err)
		}
		return oops.Code("CREATE_ADMIN_FAILED").With("operation", "create admin").Wrap(err)
	}

	cmd.Printf("Administrador creado: %s\n", out.ID)
	return nil
}

// readPassword lee sin eco desde una terminal; con cualquier otra entrada toma la primera línea.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("contraseña vacía")
	}
	return line, nil
}

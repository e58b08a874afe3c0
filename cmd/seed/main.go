// seed carga los datos iniciales: roles, oficinas con su serie, datos fiscales y el administrador.
// Es idempotente: lo que ya existe se deja como está.
//
// Uso: SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/encomiendas-api/pkg/config"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// seedID genera IDs estables para que una segunda corrida encuentre los mismos registros.
func seedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("encomiendas:"+name)).String()
}

var roles = []*entity.Role{
	{ID: seedID("role:admin"), Name: "Administrador", Permissions: grant(entity.AllPermissions...)},
	{ID: seedID("role:op"), Name: "Operador", Permissions: grant(
		entity.PermInvoicesView, entity.PermInvoicesCreate, entity.PermInvoicesEdit, entity.PermInvoicesChangeStatus,
		entity.PermFlotaView, entity.PermDispatch, entity.PermOfficesView,
	)},
	{ID: seedID("role:readonly"), Name: "Solo Lectura", Permissions: grant(
		entity.PermInvoicesView, entity.PermFlotaView, entity.PermOfficesView,
	)},
}

var offices = []*entity.Office{
	{Code: "A", Name: "OFICINA SEDE CARACAS", Phone: "0212-111-2233"},
	{Code: "B", Name: "OFICINA TERMINAL LA BANDERA"},
	{Code: "C", Name: "OFICINA VALENCIA DEPOSITO", Phone: "0241-444-5566"},
	{Code: "D", Name: "OFICINA BARQUISIMETO DEPOSITO"},
	{Code: "E", Name: "OFICINA TERMINAL MARACAIBO"},
	{Code: "F", Name: "OFICINA MARACAIBO DEPOSITO"},
	{Code: "G", Name: "OFICINA TERMINAL VALERA"},
	{Code: "H", Name: "OFICINA TERMINAL BARINAS"},
	{Code: "K", Name: "OFICINA TERMINAL MÉRIDA"},
	{Code: "M", Name: "OFICINA TERMINAL SAN CRISTOBAL"},
}

func grant(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	for _, r := range roles {
		if err := skipDuplicate(users.CreateRole(ctx, r)); err != nil {
			log.Fatal().Err(err).Str("rol", r.Name).Msg("sembrar rol")
		}
	}
	log.Info().Int("roles", len(roles)).Msg("roles verificados")

	officeRepo := postgres.NewOfficeRepository(pool)
	for _, o := range offices {
		o.ID = seedID("office:" + o.Code)
		o.Address = o.Name
		if err := skipDuplicate(officeRepo.Create(ctx, o)); err != nil {
			log.Fatal().Err(err).Str("oficina", o.Code).Msg("sembrar oficina")
		}
	}
	log.Info().Int("oficinas", len(offices)).Msg("oficinas verificadas")

	companyRepo := postgres.NewCompanyRepository(pool)
	existing, err := companyRepo.Get(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("leer datos fiscales")
	}
	if existing == nil {
		err = companyRepo.Upsert(ctx, &entity.CompanyInfo{
			RIF:     "J-12345678-9",
			Name:    "Asociación Cooperativa Mixta Fraternidad Del Transporte",
			Address: "Av. Principal, Edificio Central, Piso 1, Caracas, Venezuela",
			Phone:   "0212-555-1234",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("sembrar datos fiscales")
		}
		log.Info().Msg("datos fiscales de ejemplo creados; actualizar con PUT /api/company")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de password")
	}
	admin := &entity.User{
		ID:           seedID("user:admin"),
		Name:         "ADMIN",
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: string(hash),
		RoleID:       roles[0].ID,
		OfficeID:     offices[0].ID,
		Active:       true,
	}
	if err := skipDuplicate(users.Create(ctx, admin)); err != nil {
		log.Fatal().Err(err).Msg("sembrar administrador")
	}
	log.Info().Str("email", admin.Email).Msg("siembra completada")
}

func skipDuplicate(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}

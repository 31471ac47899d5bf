// Package seed loads reference data and bootstrap accounts from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/user"
	"census-app-go/pkg/logger"
	"github.com/goccy/go-yaml"
)

type File struct {
	Zones []Zone `yaml:"zones"`
	Users []User `yaml:"users"`
}

type Zone struct {
	Name    string   `yaml:"name"`
	Sectors []string `yaml:"sectors"`
}

type User struct {
	Name        string   `yaml:"name"`
	Email       string   `yaml:"email"`
	Password    string   `yaml:"password"`
	Role        string   `yaml:"role"`
	Permissions []string `yaml:"permissions"`
}

func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var file File
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &file, nil
}

type References interface {
	ListZones(ctx context.Context) ([]reference.ZoneSummary, error)
	CreateZone(ctx context.Context, actor access.Actor, name string) (*reference.Zone, error)
	CreateSector(ctx context.Context, actor access.Actor, input reference.SectorInput) (*reference.Sector, error)
}

type Users interface {
	EnsureUser(ctx context.Context, input user.Input) (*user.User, error)
}

type Result struct {
	ZonesCreated   int
	SectorsCreated int
	UsersEnsured   int
}

// system is the actor seeding runs as; it never exists as a row.
var system = access.Actor{Role: access.RoleAdmin}

// Apply is idempotent: zones and sectors are matched by case-insensitive name, users are upserted by email.
func Apply(ctx context.Context, file *File, refs References, users Users, log logger.Logger) (Result, error) {
	var result Result

	existing, err := refs.ListZones(ctx)
	if err != nil {
		return result, fmt.Errorf("list zones: %w", err)
	}
	zones := make(map[string]reference.Zone, len(existing))
	for _, zone := range existing {
		zones[key(zone.Name)] = zone.Zone
	}

	for _, entry := range file.Zones {
		zone, ok := zones[key(entry.Name)]
		if !ok {
			created, err := refs.CreateZone(ctx, system, entry.Name)
			if err != nil {
				return result, fmt.Errorf("zone %q: %w", entry.Name, err)
			}
			zone = *created
			zones[key(zone.Name)] = zone
			result.ZonesCreated++
			log.Info("seed: zone created", "zone_id", zone.ID, "name", zone.Name)
		}

		sectors := make(map[string]struct{}, len(zone.Sectors))
		for _, sector := range zone.Sectors {
			sectors[key(sector.Name)] = struct{}{}
		}
		for _, name := range entry.Sectors {
			if _, ok := sectors[key(name)]; ok {
				continue
			}
			sector, err := refs.CreateSector(ctx, system, reference.SectorInput{Name: name, ZoneID: zone.ID})
			if err != nil {
				return result, fmt.Errorf("sector %q in zone %q: %w", name, zone.Name, err)
			}
			sectors[key(name)] = struct{}{}
			result.SectorsCreated++
			log.Info("seed: sector created", "sector_id", sector.ID, "zone_id", zone.ID, "name", sector.Name)
		}
	}

	for _, entry := range file.Users {
		ensured, err := users.EnsureUser(ctx, user.Input{
			Name:        entry.Name,
			Email:       entry.Email,
			Password:    entry.Password,
			Role:        entry.Role,
			Permissions: entry.Permissions,
		})
		if err != nil {
			return result, fmt.Errorf("user %q: %w", entry.Email, err)
		}
		result.UsersEnsured++
		log.Info("seed: user ensured", "user_id", ensured.ID, "role", ensured.Role)
	}

	return result, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

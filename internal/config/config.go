package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hdelgado/legalizador/internal/models"
)

// Config holds all application configuration
type Config struct {
	Rutas        RutasConfig        `mapstructure:"rutas"`
	Proceso      ProcesoConfig      `mapstructure:"proceso"`
	Personal     PersonalConfig     `mapstructure:"personal"`
	Verificacion VerificacionConfig `mapstructure:"verificacion"`
	PDF          PDFConfig          `mapstructure:"pdf"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logger       LoggerConfig       `mapstructure:"logger"`
}

// RutasConfig holds the input and output locations of a run
type RutasConfig struct {
	ArchivoPartidas string `mapstructure:"archivo_partidas"`
	DirectorioBase  string `mapstructure:"directorio_base"`
	Plantillas      string `mapstructure:"plantillas"`
	Salida          string `mapstructure:"salida"`
}

// ProcesoConfig holds the parameters of the month being legalized
type ProcesoConfig struct {
	Mes             string `mapstructure:"mes"`
	Ejercicio       string `mapstructure:"ejercicio"`
	FechaDocumento  string `mapstructure:"fecha_documento"` // YYYY-MM-DD
	EditarConceptos bool   `mapstructure:"editar_conceptos"`
}

// PersonalConfig holds the signing personnel printed on every document
type PersonalConfig struct {
	RecibioLaCompra models.Personal `mapstructure:"recibio_la_compra"`
	VoBo            models.Personal `mapstructure:"vo_bo"`
}

// VerificacionConfig holds SAT portal verification configuration
type VerificacionConfig struct {
	Habilitada bool          `mapstructure:"habilitada"`
	PortalURL  string        `mapstructure:"portal_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// PDFConfig holds combined-expediente configuration
type PDFConfig struct {
	Combinar    bool   `mapstructure:"combinar"`
	Convertidor string `mapstructure:"convertidor"` // soffice binary path
}

// ServerConfig holds the status API server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds run-history database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("rutas.archivo_partidas", "datos/partidas.xlsx")
	viper.SetDefault("rutas.directorio_base", "datos/facturas")
	viper.SetDefault("rutas.plantillas", "plantillas")
	viper.SetDefault("rutas.salida", "salida")

	viper.SetDefault("proceso.editar_conceptos", false)

	viper.SetDefault("verificacion.habilitada", false)
	viper.SetDefault("verificacion.timeout", 30*time.Second)

	viper.SetDefault("pdf.combinar", false)
	viper.SetDefault("pdf.convertidor", "soffice")

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "datos/legalizador.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("rutas.archivo_partidas", "LEGALIZADOR_PARTIDAS")
	viper.BindEnv("rutas.directorio_base", "LEGALIZADOR_FACTURAS")
	viper.BindEnv("rutas.salida", "LEGALIZADOR_SALIDA")
	viper.BindEnv("proceso.mes", "LEGALIZADOR_MES")
	viper.BindEnv("proceso.ejercicio", "LEGALIZADOR_EJERCICIO")
	viper.BindEnv("verificacion.portal_url", "SAT_PORTAL_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Rutas.ArchivoPartidas == "" {
		return fmt.Errorf("rutas.archivo_partidas is required")
	}
	if c.Rutas.DirectorioBase == "" {
		return fmt.Errorf("rutas.directorio_base is required")
	}
	if c.Rutas.Plantillas == "" {
		return fmt.Errorf("rutas.plantillas is required")
	}

	if c.Proceso.Mes == "" {
		return fmt.Errorf("proceso.mes is required")
	}
	if c.Proceso.Ejercicio == "" {
		return fmt.Errorf("proceso.ejercicio is required")
	}
	if c.Proceso.FechaDocumento == "" {
		return fmt.Errorf("proceso.fecha_documento is required")
	}

	if c.Personal.RecibioLaCompra.Nombre == "" {
		return fmt.Errorf("personal.recibio_la_compra.nombre is required")
	}
	if c.Personal.VoBo.Nombre == "" {
		return fmt.Errorf("personal.vo_bo.nombre is required")
	}

	return nil
}

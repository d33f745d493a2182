package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// AdminAPIKeyHash is a bcrypt hash of the key required on /api routes. Empty disables the check.
	AdminAPIKeyHash string `mapstructure:"ADMIN_API_KEY_HASH"`
	// RedisURL points to the Redis instance holding the status definitions.
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Database holds the metadata database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// WooCommerce holds the WooCommerce API configuration.
	WooCommerce WooCommerceConfig `mapstructure:",squash"`

	// Courier holds the courier SOAP API configuration.
	Courier CourierConfig `mapstructure:",squash"`

	// Shipping holds the shipment preparation options.
	Shipping ShippingConfig `mapstructure:",squash"`

	// Scheduler holds the background job intervals.
	Scheduler SchedulerConfig `mapstructure:",squash"`
}

// WooCommerceConfig holds the credentials for the WooCommerce Store.
type WooCommerceConfig struct {
	// URL is the base URL of the WooCommerce store.
	URL string `mapstructure:"WC_URL" required:"true"`
	// ConsumerKey is the public key for API access.
	ConsumerKey string `mapstructure:"WC_CONSUMER_KEY" required:"true"`
	// ConsumerSecret is the secret key for API access.
	ConsumerSecret string `mapstructure:"WC_CONSUMER_SECRET" required:"true"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Host is the database server hostname.
	Host string `mapstructure:"DB_HOST" default:"localhost"`
	// Port is the database connection port.
	Port int `mapstructure:"DB_PORT" default:"5432"`
	// User is the database role.
	User string `mapstructure:"DB_USER" default:"postgres"`
	// Password is the database role password.
	Password string `mapstructure:"DB_PASSWORD"`
	// Name is the database name.
	Name string `mapstructure:"DB_NAME" default:"courier_bridge"`
	// Embedded starts a local PostgreSQL process instead of connecting to Host.
	Embedded bool `mapstructure:"DB_EMBEDDED"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// CourierConfig holds the courier endpoint and the account credentials.
// Credentials are validated per call, not at load time.
type CourierConfig struct {
	// BaseURL is the root of the courier web services.
	BaseURL string `mapstructure:"COURIER_BASE_URL" required:"true"`
	// Namespace is the XML namespace of the SOAP operations.
	Namespace string `mapstructure:"COURIER_NAMESPACE" default:"http://tempuri.org/"`
	// AccountNumber identifies the customer account.
	AccountNumber string `mapstructure:"COURIER_ACCOUNT_NUMBER"`
	// WarehouseCRM identifies the warehouse the account ships from.
	WarehouseCRM string `mapstructure:"COURIER_WAREHOUSE_CRM"`
	// Username is the API user.
	Username string `mapstructure:"COURIER_USERNAME"`
	// Password is the API password.
	Password string `mapstructure:"COURIER_PASSWORD"`
	// OmitCRMUnscoped drops the CRM parameter on calls that span every warehouse.
	OmitCRMUnscoped bool `mapstructure:"COURIER_OMIT_CRM_UNSCOPED"`
	// TimeoutSeconds bounds a single remote call.
	TimeoutSeconds int `mapstructure:"COURIER_TIMEOUT_SECONDS" default:"30"`
	// Locale selects the description language of status histories ("el" or "en").
	Locale string `mapstructure:"COURIER_LOCALE" default:"el"`

	// Proxy routes courier calls through a whitelisted egress address.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ProxyConfig holds the optional upstream proxy for courier calls.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"COURIER_PROXY_ENABLED"`
	Hostname string `mapstructure:"COURIER_PROXY_HOST"`
	Port     int    `mapstructure:"COURIER_PROXY_PORT"`
	Username string `mapstructure:"COURIER_PROXY_USERNAME"`
	Password string `mapstructure:"COURIER_PROXY_PASSWORD"`
}

// Timeout returns the per-call timeout.
func (c CourierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ShippingConfig controls how shipment requests are derived from orders.
type ShippingConfig struct {
	// SMSNotification asks the courier to notify the recipient by SMS.
	SMSNotification bool `mapstructure:"SHIPPING_SMS_NOTIFICATION"`
	// MorningKeywords are matched against the shipping method label (comma separated).
	MorningKeywords string `mapstructure:"SHIPPING_MORNING_KEYWORDS" default:"Πρωινή παράδοση,Morning delivery"`
	// SaturdayKeywords are matched against the shipping method label (comma separated).
	SaturdayKeywords string `mapstructure:"SHIPPING_SATURDAY_KEYWORDS" default:"Παράδοση Σάββατο,Saturday delivery"`
	// CODMethod is the payment method id that means cash on delivery.
	CODMethod string `mapstructure:"SHIPPING_COD_METHOD" default:"cod"`
}

// Morning returns the morning delivery keywords.
func (s ShippingConfig) Morning() []string {
	return splitList(s.MorningKeywords)
}

// Saturday returns the Saturday delivery keywords.
func (s ShippingConfig) Saturday() []string {
	return splitList(s.SaturdayKeywords)
}

// SchedulerConfig holds the intervals of the background jobs.
type SchedulerConfig struct {
	// ReconcileIntervalSeconds is the period of the order reconciliation sweep.
	ReconcileIntervalSeconds int `mapstructure:"RECONCILE_INTERVAL_SECONDS" default:"300"`
	// StockSyncIntervalSeconds is the period of the full stock sync. 0 disables it.
	StockSyncIntervalSeconds int `mapstructure:"STOCK_SYNC_INTERVAL_SECONDS"`
}

// ReconcileInterval returns the sweep period.
func (s SchedulerConfig) ReconcileInterval() time.Duration {
	return time.Duration(s.ReconcileIntervalSeconds) * time.Second
}

// StockSyncInterval returns the stock sync period.
func (s SchedulerConfig) StockSyncInterval() time.Duration {
	return time.Duration(s.StockSyncIntervalSeconds) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateRanges(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// validateRanges rejects durations the scheduler and the transport cannot use.
func validateRanges(config *AppConfig) error {
	switch {
	case config.Scheduler.ReconcileIntervalSeconds <= 0:
		return fmt.Errorf("invalid configuration: RECONCILE_INTERVAL_SECONDS must be positive, got %d", config.Scheduler.ReconcileIntervalSeconds)
	case config.Scheduler.StockSyncIntervalSeconds < 0:
		return fmt.Errorf("invalid configuration: STOCK_SYNC_INTERVAL_SECONDS must not be negative, got %d", config.Scheduler.StockSyncIntervalSeconds)
	case config.Courier.TimeoutSeconds <= 0:
		return fmt.Errorf("invalid configuration: COURIER_TIMEOUT_SECONDS must be positive, got %d", config.Courier.TimeoutSeconds)
	}
	return nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		if defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return v.IsZero()
	}
}

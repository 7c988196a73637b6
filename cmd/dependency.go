package cmd

import (
	"catering-quote/common/constant"
	"catering-quote/common/jetstream"
	"catering-quote/common/otel"
	"catering-quote/core/catalog"
	"catering-quote/core/quote"
	inboundHttp "catering-quote/inbound/http"
	"catering-quote/outbound/airtable"
	"catering-quote/outbound/catalogcache"
	"catering-quote/outbound/csvfile"
	emailOutbound "catering-quote/outbound/email"
	"catering-quote/outbound/pgcatalog"
	"catering-quote/outbound/queue"
	"catering-quote/outbound/sessionstore"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	natsJetstream "github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	otelGlobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
)

func setDefaults(config *viper.Viper) {
	config.SetDefault("server.port", 8080)
	config.SetDefault("server.timezone", "UTC")
	config.SetDefault("catalog.source", "csv")
	config.SetDefault("catalog.airtable.page_size", 100)
	config.SetDefault("catalog.cache.ttl", constant.CatalogDefaultTTL)
	config.SetDefault("catalog.refresh.timeout", 30*time.Second)
	config.SetDefault("catalog.dietary_filter", true)
	config.SetDefault("wizard.info_screen", true)
	config.SetDefault("quote.service_fee_percent", "0")
	config.SetDefault("quote.tax_percent", "0")
	config.SetDefault("quote.tax_base", string(quote.TaxOnSubtotalAndFee))
	config.SetDefault("quote.locale", "en-US")
	config.SetDefault("quote.currency_symbol", "$")
	config.SetDefault("session.store", "redis")
	config.SetDefault("session.ttl", constant.SessionDefaultTTL)
	config.SetDefault("email.format", constant.EmailFormatHTML)
	config.SetDefault("email.delivery", constant.EmailDeliveryDirect)
	config.SetDefault("queue.max_bytes", -1)
	config.SetDefault("queue.email.timeout", 30*time.Second)
	config.SetDefault("queue.email.max_deliver", 5)
	config.SetDefault("queue.email.ack_wait", time.Minute)
}

func newCfg(name string) *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalln(err)
	}

	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	_ = config.BindEnv("catalog.airtable.token", "AIRTABLE_TOKEN", "CATALOG_AIRTABLE_TOKEN")
	_ = config.BindEnv("email.password", "SMTP_PASS", "EMAIL_PASSWORD")
	setDefaults(config)

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	config.MaxConns = int32(maxConn)
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = otel.PgxTracer{}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       0,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) natsJetstream.JetStream {
	js, err := natsJetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func createStreamWorkQueue(ctx context.Context, cfg *viper.Viper, js natsJetstream.JetStream) natsJetstream.Stream {
	st, err := jetstream.CreateQueueStream(ctx, js, cfg.GetInt64("queue.max_bytes"))
	if err != nil {
		panic(err)
	}

	return st
}

// newTracerProvider installs an OTLP/gRPC exporter when otel.endpoint is set.
// Without it spans stay on the global no-op provider.
func newTracerProvider(ctx context.Context, cfg *viper.Viper) func(context.Context) error {
	endpoint := cfg.GetString("otel.endpoint")
	if endpoint == "" {
		return func(context.Context) error { return nil }
	}

	serviceName := cfg.GetString("otel.service_name")
	if serviceName == "" {
		serviceName = otel.InstrumentationName
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(serviceName)),
	)
	if err != nil {
		log.Fatalln("unable to create trace exporter", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", cfg.GetString("env")),
		)),
	)
	otelGlobal.SetTracerProvider(tp)

	return tp.Shutdown
}

type categoryMapping struct {
	Item     string `mapstructure:"item"`
	Category string `mapstructure:"category"`
}

// newCategoryMap reads catalog.csv.category_map as a list so item names keep
// their case; viper lowercases map keys.
func newCategoryMap(cfg *viper.Viper) map[string]string {
	var mappings []categoryMapping
	if err := cfg.UnmarshalKey("catalog.csv.category_map", &mappings); err != nil {
		log.Fatalln("invalid catalog.csv.category_map", err)
	}

	categoryMap := make(map[string]string, len(mappings))
	for _, m := range mappings {
		categoryMap[m.Item] = m.Category
	}
	return categoryMap
}

func newFieldNames(cfg *viper.Viper) catalog.FieldNames {
	fields := catalog.DefaultFieldNames()

	override := func(key string, target *string) {
		if v := cfg.GetString("catalog.airtable.fields." + key); v != "" {
			*target = v
		}
	}
	override("name", &fields.Name)
	override("price", &fields.Price)
	override("servings", &fields.Servings)
	override("description", &fields.Description)
	override("category", &fields.Category)
	override("dietary_tags", &fields.DietaryTags)

	return fields
}

func newAirtableClient(cfg *viper.Viper) *airtable.Client {
	return &airtable.Client{
		HTTPClient: &http.Client{Timeout: cfg.GetDuration("catalog.refresh.timeout")},
		BaseURL:    cfg.GetString("catalog.airtable.base_url"),
		BaseID:     cfg.GetString("catalog.airtable.base_id"),
		Table:      cfg.GetString("catalog.airtable.table"),
		View:       cfg.GetString("catalog.airtable.view"),
		Token:      cfg.GetString("catalog.airtable.token"),
		PageSize:   cfg.GetInt("catalog.airtable.page_size"),
		Fields:     newFieldNames(cfg),
	}
}

// newCatalogSource picks the loader named by catalog.source and, when
// catalog.cache.enabled, puts the shared redis snapshot in front of it.
// The returned func releases what the source opened.
func newCatalogSource(cfg *viper.Viper, cache *redis.Client) (catalog.Source, func()) {
	var source catalog.Source
	closer := func() {}

	name := cfg.GetString("catalog.source")
	switch name {
	case "csv":
		source = &csvfile.Loader{
			Path:        cfg.GetString("catalog.csv.path"),
			Encoding:    cfg.GetString("catalog.csv.encoding"),
			CategoryMap: newCategoryMap(cfg),
			Fields:      newFieldNames(cfg),
		}
	case "airtable":
		source = newAirtableClient(cfg)
	case "postgres":
		db := newDb(cfg)
		source = pgcatalog.Repository{Db: db}
		closer = db.Close
	default:
		log.Fatalf("unknown catalog.source %q", name)
	}

	if cfg.GetBool("catalog.cache.enabled") {
		if cache == nil {
			log.Fatalln("catalog.cache.enabled needs redis")
		}
		source = catalogcache.CachedSource{
			Source: source,
			Snapshot: catalogcache.Snapshot{
				Cache: cache,
				Name:  name,
				TTL:   cfg.GetDuration("catalog.cache.ttl"),
			},
		}
	}

	return source, closer
}

func needsRedis(cfg *viper.Viper) bool {
	return cfg.GetString("session.store") == "redis" || cfg.GetBool("catalog.cache.enabled")
}

func newSessionStore(cfg *viper.Viper, cache *redis.Client) inboundHttp.SessionStore {
	switch store := cfg.GetString("session.store"); store {
	case "redis":
		return sessionstore.RedisStore{Cache: cache, TTL: cfg.GetDuration("session.ttl")}
	case "memory":
		return sessionstore.NewMemoryStore(cfg.GetDuration("session.ttl"))
	default:
		log.Fatalf("unknown session.store %q", store)
		return nil
	}
}

// newNotifier returns the quote delivery configured under email.delivery and
// a func that closes its connection.
func newNotifier(ctx context.Context, cfg *viper.Viper) (inboundHttp.QuoteNotifier, func()) {
	switch delivery := cfg.GetString("email.delivery"); delivery {
	case constant.EmailDeliveryDirect:
		outbound := &emailOutbound.EmailOutbound{Cfg: cfg}
		outbound.Init()
		return outbound, func() {}
	case constant.EmailDeliveryQueue:
		natsConn := newNats(cfg)
		js := newJs(natsConn)
		createStreamWorkQueue(ctx, cfg, js)
		return queue.EmailQueue{Publisher: js}, natsConn.Close
	default:
		log.Fatalf("unknown email.delivery %q", delivery)
		return nil, nil
	}
}

func newFormatter(cfg *viper.Viper) quote.Formatter {
	tag, err := language.Parse(cfg.GetString("quote.locale"))
	if err != nil {
		log.Fatalln("invalid quote.locale", err)
	}

	return quote.NewFormatter(tag, cfg.GetString("quote.currency_symbol"))
}

func newPolicy(cfg *viper.Viper) quote.Policy {
	fee, err := decimal.NewFromString(cfg.GetString("quote.service_fee_percent"))
	if err != nil {
		log.Fatalln("invalid quote.service_fee_percent", err)
	}

	tax, err := decimal.NewFromString(cfg.GetString("quote.tax_percent"))
	if err != nil {
		log.Fatalln("invalid quote.tax_percent", err)
	}

	taxBase, err := quote.ParseTaxBase(cfg.GetString("quote.tax_base"))
	if err != nil {
		log.Fatalln(err)
	}

	policy := quote.Policy{ServiceFeePercent: fee, TaxPercent: tax, TaxBase: taxBase}
	if err := policy.Validate(); err != nil {
		log.Fatalln(err)
	}

	return policy
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port         string
	DBDSN        string
	TemplatesDir string
	// StorefrontPage is the rendered products markup the catalog falls
	// back to scraping when both the remote store and the local blob
	// come up empty.
	StorefrontPage string
	LogFile        string

	AdminUser     string
	AdminPassHash []byte

	MongoURI string
	MongoDB  string
	// RemoteEmptyIsEmpty treats an empty remote products collection as a
	// genuinely empty catalog instead of falling through to local state.
	RemoteEmptyIsEmpty bool
	// RemoteWatch subscribes to remote change streams and re-projects on
	// every event, mirroring the in-process commit broadcast.
	RemoteWatch bool

	EmailEndpoint   string
	EmailServiceID  string
	EmailTemplateID string
	EmailPublicKey  string

	// ShippingFees maps a governorate choice to its delivery fee.
	// Unlisted governorates ship at 0, like the storefront's
	// parseInt-or-zero lookup.
	ShippingFees map[string]float64
}

func Load() Config {
	// .env is only for local runs; deployed environments set real vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[warn] could not load .env: %v", err)
		}
	}

	cfg := Config{
		Port:           get("PORT", "8080"),
		DBDSN:          get("DB_DSN", "icaru.db"),
		TemplatesDir:   get("TEMPLATES_DIR", "./web/templates"),
		StorefrontPage: get("STOREFRONT_PAGE", "./web/products.html"),
		LogFile:        get("LOG_FILE", "./icaru.log"),

		AdminUser: get("ADMIN_USER", "ICARUstore@5"),

		MongoURI:           get("MONGO_URI", ""),
		MongoDB:            get("MONGO_DB", "icaru"),
		RemoteEmptyIsEmpty: getBool("REMOTE_EMPTY_IS_EMPTY", false),
		RemoteWatch:        getBool("REMOTE_WATCH", false),

		EmailEndpoint:   get("EMAIL_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
		EmailServiceID:  get("EMAIL_SERVICE_ID", "service_icaru"),
		EmailTemplateID: get("EMAIL_TEMPLATE_ID", "template_icaru"),
		EmailPublicKey:  get("EMAIL_PUBLIC_KEY", ""),

		ShippingFees: parseFees(get("SHIPPING_FEES", "cairo:50,giza:50,alexandria:60")),
	}

	// The credential pair is configured, not hardcoded; real auth is out
	// of scope so one pair is all there is. Only the hash is retained.
	pass := get("ADMIN_PASS", "@ICARU5#shop5")
	h, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[config] hashing admin password: %v", err)
	}
	cfg.AdminPassHash = h

	log.Printf("[config] PORT=%s DB_DSN=%s MONGO_DB=%s REMOTE=%v LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.MongoDB, cfg.MongoURI != "", cfg.LogFile)
	return cfg
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseFees reads "cairo:50,giza:50" into a fee table. Bad pairs are
// skipped, not fatal.
func parseFees(s string) map[string]float64 {
	out := map[string]float64{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		fee, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = fee
	}
	return out
}

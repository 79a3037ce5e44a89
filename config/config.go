package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address                  string `env:"ADDRESS" envDefault:"8080"`                        // Cổng server
	MongoDB_ConnectionURI    string `env:"MONGODB_CONNECTION_URI,required"`                  // URL kết nối cơ sở dữ liệu
	MongoDB_DBName           string `env:"MONGODB_DBNAME,required"`                          // Tên cơ sở dữ liệu
	MongoDB_UseTransactions  bool   `env:"MONGODB_USE_TRANSACTIONS" envDefault:"false"`      // Bật transaction (cần replica set)
	Session_CookieSecure     bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`         // Cookie phiên chỉ gửi qua HTTPS
	Session_TTLMinutes       int    `env:"SESSION_TTL_MINUTES" envDefault:"720"`             // Thời gian sống của phiên (phút)
	CORS_Origins             string `env:"CORS_ORIGINS" envDefault:"*"`                      // Các origins được phép (phân cách bởi dấu phẩy)
	CORS_AllowCredentials    bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`        // Cho phép gửi credentials
	RateLimit_Max            int    `env:"RATE_LIMIT_MAX" envDefault:"100"`                  // Số request tối đa trong window
	RateLimit_Window         int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`                // Thời gian window (giây)
	RateLimit_Enabled        bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`             // Bật/tắt rate limiting
	Timezone                 string `env:"TIMEZONE" envDefault:"Europe/Paris"`               // Múi giờ dùng cho lịch tính thưởng
	AdminEmail               string `env:"ADMIN_EMAIL"`                                      // Email admin khởi tạo
	AdminPassword            string `env:"ADMIN_PASSWORD"`                                   // Mật khẩu admin khởi tạo
	SMTP_Host                string `env:"SMTP_HOST"`                                        // SMTP dùng cho cảnh báo job
	SMTP_Port                int    `env:"SMTP_PORT" envDefault:"587"`                       // Cổng SMTP
	SMTP_Username            string `env:"SMTP_USERNAME"`                                    // Tài khoản SMTP
	SMTP_Password            string `env:"SMTP_PASSWORD"`                                    // Mật khẩu SMTP
	Alert_From               string `env:"ALERT_FROM"`                                       // Địa chỉ gửi cảnh báo
	Alert_To                 string `env:"ALERT_TO"`                                         // Danh sách nhận cảnh báo (phân cách bởi dấu phẩy)
	PrimeMonitor_IntervalSec int    `env:"PRIME_MONITOR_INTERVAL_SECONDS" envDefault:"300"`  // Chu kỳ kiểm tra job treo
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Impossible de lire le répertoire courant: %v\n", err)
		return ""
	}

	// Đi lên dần cho tới khi gặp config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc file env (nếu có) rồi parse biến môi trường vào Configuration.
// Thiếu file env không phải lỗi khi biến môi trường đã được cung cấp sẵn (container).
func NewConfig() (*Configuration, error) {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// SMTPEnabled cho biết có đủ cấu hình để gửi mail cảnh báo hay không
func (c *Configuration) SMTPEnabled() bool {
	return c.SMTP_Host != "" && c.Alert_From != "" && c.Alert_To != ""
}

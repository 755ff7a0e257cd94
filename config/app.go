package config

type App struct {
	Port           string  `env:"APP_PORT" default:"8080"`
	DatabaseURL    string  `env:"DATABASE_URL,required"`
	JWTSecret      string  `env:"JWT_SECRET" default:"local_dev_secret"`
	Env            string  `env:"APP_ENV" default:"dev"`
	RentalLimit    int     `env:"RENTAL_LIMIT" default:"3"`
	RentalDueDays  int     `env:"RENTAL_DUE_DAYS" default:"14"`
	LateFeeDefault float64 `env:"LATE_FEE_DEFAULT" default:"20"`
}

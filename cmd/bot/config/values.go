package config

const (
	// AppName is the name of the application.
	AppName = "expressbot"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI. Absence is
	// a normal condition; the bot then runs on SQLite alone.
	EnvMongoUri = `MONGO_URI`

	// EnvMongoUriFile is the environment variable for a file containing the
	// MongoDB URI. Inline EnvMongoUri wins when both are set.
	EnvMongoUriFile = `MONGO_URI_FILE`

	// EnvDBFile is the environment variable overriding the SQLite file
	// location.
	EnvDBFile = `DB_FILE`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MongoUriFile is the path to a file containing the MongoDB URI.
	MongoUriFile string

	// DBFile is the SQLite database file override.
	DBFile string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)

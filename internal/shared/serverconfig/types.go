package serverconfig

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	GameServer GameServerConfig `yaml:"gameserver" mapstructure:"gameserver"`
	TickServer TickServerConfig `yaml:"tickserver" mapstructure:"tickserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Logic      LogicConfig      `yaml:"logic" mapstructure:"logic"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type GameServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type TickServerConfig struct {
	// TickIntervalS 全局资源结算周期，默认 300 秒。
	TickIntervalS int `yaml:"tick_interval_s" mapstructure:"tick_interval_s"`
	// ResolveIntervalS 行军任务推进周期，默认 10 秒。
	ResolveIntervalS int `yaml:"resolve_interval_s" mapstructure:"resolve_interval_s"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	ServerID int `yaml:"server_id" mapstructure:"server_id"`
	// QueueSlots 每种队列（建造/训练/研究）允许的并发条目数，默认 1。
	QueueSlots int `yaml:"queue_slots" mapstructure:"queue_slots"`
	// ChunkSize 世界地图分块边长（格），默认 16。
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size"`
}

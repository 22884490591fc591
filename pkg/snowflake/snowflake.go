package snowflake

type Snowflake interface {
	Generate() int64
	GenerateString() string
}

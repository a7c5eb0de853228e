package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("DEFAULT_SHIPPING_PROVIDER_ID", "")
	t.Setenv("ORDER_TX_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "items", cfg.ESIndex)
	assert.EqualValues(t, 1, cfg.DefaultShippingProviderID)
	assert.Equal(t, 5*time.Second, cfg.OrderTxTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")
	t.Setenv("DEFAULT_SHIPPING_PROVIDER_ID", "3")
	t.Setenv("ORDER_TX_TIMEOUT", "750ms")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	assert.EqualValues(t, 3, cfg.DefaultShippingProviderID)
	assert.Equal(t, 750*time.Millisecond, cfg.OrderTxTimeout)
	assert.Equal(t, []byte("secret"), cfg.JWTAccessSecret)
}

func TestEnvIntDefault_BadValue(t *testing.T) {
	t.Setenv("SHOP_TEST_INT", "abc")
	assert.Equal(t, 7, EnvIntDefault("SHOP_TEST_INT", 7))
}

func TestEnvDurationDefault_Negative(t *testing.T) {
	t.Setenv("SHOP_TEST_DUR", "-1s")
	assert.Equal(t, time.Second, EnvDurationDefault("SHOP_TEST_DUR", time.Second))
}

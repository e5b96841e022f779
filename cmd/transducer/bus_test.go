package main

import (
	"context"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/transducer/config"
	"github.com/mklimuk/transducer/pressure"
)

func TestOpenBus_Simulator(t *testing.T) {
	cfg := config.BusConfig{Adapter: config.AdapterSim, Address: 0x29}
	bus, closeBus, err := openBus(context.Background(), cfg, pressure.Model1200B)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeBus()) }()

	s := pressure.NewAMS5935(bus, pressure.WithAddress(0x29))
	require.NoError(t, s.SetModel(pressure.Model1200B))
	r, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 95_000, r.PressurePa, 2_600)
	assert.InDelta(t, 22, r.TemperatureC, 1.01)
}

func TestOpenBus_Unsupported(t *testing.T) {
	_, _, err := openBus(context.Background(), config.BusConfig{Adapter: "ftdi"}, pressure.Model1000A)
	assert.EqualError(t, err, `unsupported adapter "ftdi"`)
}

func TestBusConfig(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range busFlags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse([]string{"--adapter", "sim", "--address", "41"}))
	c := cli.NewContext(cli.NewApp(), set, nil)

	cfg, err := busConfig(c, config.Default().Bus)
	require.NoError(t, err)
	assert.Equal(t, config.AdapterSim, cfg.Adapter)
	assert.Equal(t, uint8(41), cfg.Address)
	assert.Equal(t, 100_000, cfg.SpeedHz)
	assert.Empty(t, cfg.Device)
}

func TestBusConfig_AddressOutOfRange(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range busFlags {
		require.NoError(t, f.Apply(set))
	}
	// 0x128 would wrap to the sensor default 0x28
	require.NoError(t, set.Parse([]string{"--address", "296"}))
	c := cli.NewContext(cli.NewApp(), set, nil)

	cfg, err := busConfig(c, config.Default().Bus)
	assert.EqualError(t, err, "address 0x128 is not a 7-bit address")
	assert.Equal(t, uint8(0x28), cfg.Address)
}

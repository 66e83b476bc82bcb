package telemetry

import "time"

// Reading is a single turbine sensor sample supplied by the caller. The core
// never synthesizes readings.
type Reading struct {
	Timestamp   time.Time
	PowerOutput float64 // kW
	WindSpeed   float64 // m/s
	Temperature float64 // °C
	Vibration   float64 // mm/s
}

// Level classifies a measurement against its operating thresholds.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelMonitor  Level = "monitor"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Snapshot aggregates a window of readings for prompt construction.
type Snapshot struct {
	Latest           Reading
	Count            int
	AvgPower         float64
	AvgWind          float64
	MaxTemperature   float64
	MaxVibration     float64
	TemperatureLevel Level
	VibrationLevel   Level
}

// Summarize computes trend figures over the readings and classifies the
// latest one. A nil or empty window yields a zero snapshot.
func Summarize(readings []Reading) Snapshot {
	if len(readings) == 0 {
		return Snapshot{}
	}
	var s Snapshot
	s.Count = len(readings)
	s.Latest = readings[len(readings)-1]
	for _, r := range readings {
		s.AvgPower += r.PowerOutput
		s.AvgWind += r.WindSpeed
		if r.Temperature > s.MaxTemperature {
			s.MaxTemperature = r.Temperature
		}
		if r.Vibration > s.MaxVibration {
			s.MaxVibration = r.Vibration
		}
	}
	s.AvgPower /= float64(s.Count)
	s.AvgWind /= float64(s.Count)
	s.TemperatureLevel = TemperatureLevel(s.Latest.Temperature)
	s.VibrationLevel = VibrationLevel(s.Latest.Vibration)
	return s
}

// TemperatureLevel maps a gearbox temperature to its operating band:
// 40-60°C normal, 60-70 monitor, 70-75 warning, above 75 critical.
func TemperatureLevel(t float64) Level {
	switch {
	case t > 75:
		return LevelCritical
	case t > 70:
		return LevelWarning
	case t > 60:
		return LevelMonitor
	default:
		return LevelNormal
	}
}

// VibrationLevel maps drivetrain vibration to its operating band:
// up to 3.5 mm/s normal, 3.5-4.0 monitor, 4.0-7.0 warning, above 7 critical.
func VibrationLevel(v float64) Level {
	switch {
	case v > 7.0:
		return LevelCritical
	case v > 4.0:
		return LevelWarning
	case v > 3.5:
		return LevelMonitor
	default:
		return LevelNormal
	}
}

package logic

// Validate reports whether all three readings are inside their ranges.
// NaN compares false against every bound, so a failed read never validates.
func Validate(humidity, temperature float64, light int) bool {
	return (humidity >= HumidityMin && humidity <= HumidityMax) &&
		(temperature >= TempMin && temperature <= TempMax) &&
		(light >= LightMin && light <= LightMax)
}

// ButtonActive reports whether either button is pressed.
func ButtonActive(primary, secondary bool) bool {
	return primary || secondary
}

// Evaluate computes the state for a snapshot from scratch.
// There is no memory of previous cycles and no hysteresis.
func Evaluate(snap Snapshot) State {
	valid := Validate(snap.Humidity, snap.Temperature, snap.Light)
	active := ButtonActive(snap.PrimaryPressed, snap.SecondaryPressed)
	return State{
		Valid:           valid,
		ButtonActive:    active,
		OutputEnergized: valid && active,
	}
}

package algos

import "github.com/StupidArthur/data-factory-next/registry"

// Register populates reg with the canonical algorithm suite and the
// stateless math function library.
func Register(reg *registry.Registry) {
	reg.RegisterAlgorithm("SINE_WAVE", newSineWave, sineWaveDoc)
	reg.RegisterAlgorithm("SQUARE_WAVE", newSquareWave, squareWaveDoc)
	reg.RegisterAlgorithm("TRIANGLE_WAVE", newTriangleWave, triangleWaveDoc)
	reg.RegisterAlgorithm("LIST_WAVE", newListWave, listWaveDoc)
	reg.RegisterAlgorithm("RANDOM", newRandom, randomDoc)
	reg.RegisterAlgorithm("PID", newPid, pidDoc)
	reg.RegisterAlgorithm("CYLINDRICAL_TANK", newCylindricalTank, cylindricalTankDoc)
	reg.RegisterAlgorithm("VALVE", newValve, valveDoc)

	for _, entry := range mathFunctions {
		reg.RegisterFunction(entry.name, entry.fn, entry.doc)
	}
}

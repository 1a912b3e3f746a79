package simulate

// HTTP status code constants.
const (
	StatusOK      = 200
	StatusCreated = 201
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	// AverageTolerance bounds the difference accepted between a served
	// average and the locally recomputed one.
	AverageTolerance = 0.005
)

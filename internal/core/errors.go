package core

import "errors"

var (
	// ErrDatasetMissing is returned when the dataset root or one of its class directories is absent
	ErrDatasetMissing = errors.New("dataset missing")
	// ErrEmptyTrainingSet is returned when training is asked to run on no examples
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrNoValidExamples is returned when neither class received a message
	ErrNoValidExamples = errors.New("no valid spam or ham examples")
	// ErrInvalidFraction is returned when a train fraction is outside (0, 1)
	ErrInvalidFraction = errors.New("train fraction must be between 0 and 1")
	// ErrModelNotTrained is returned when an operation needs a trained model
	ErrModelNotTrained = errors.New("model not trained")
	// ErrPersistenceWrite is returned when a model could not be written
	ErrPersistenceWrite = errors.New("failed to persist model")
	// ErrCorruptModel is returned when a persisted model is malformed or incomplete
	ErrCorruptModel = errors.New("persisted model is corrupt")
	// ErrModelNotFound is returned when no persisted model exists
	ErrModelNotFound = errors.New("persisted model not found")
	// ErrInvalidSmoothing is returned for a non-positive smoothing constant
	ErrInvalidSmoothing = errors.New("smoothing factor k must be positive")
)

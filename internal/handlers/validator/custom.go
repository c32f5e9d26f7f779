package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/katube/audio-archiver/internal/pipeline"
)

// Session and file names end up as path segments under the output root and
// as object store keys, so they are restricted to safe characters.
var resourceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func youtubeURLValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return pipeline.IsChannelURL(val) || pipeline.IsVideoURL(val)
}

func resourceNameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return resourceNameRegex.MatchString(val)
}

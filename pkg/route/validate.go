package route

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/navigatorx-ar/pkg/geo"
	"github.com/lintang-b-s/navigatorx-ar/pkg/util"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	validate.RegisterStructValidation(coordinateStructLevel, geo.Coordinate{})
}

func coordinateStructLevel(sl validator.StructLevel) {
	c := sl.Current().Interface().(geo.Coordinate)
	if !util.IsFinite(c.Lat, c.Lon) || c.Lat < -90 || c.Lat > 90 {
		sl.ReportError(c.Lat, "Lat", "lat", "latitude", "")
	}
	if !util.IsFinite(c.Lat, c.Lon) || c.Lon < -180 || c.Lon > 180 {
		sl.ReportError(c.Lon, "Lon", "lon", "longitude", "")
	}
}

// Validate checks r before it is handed to the scene, which does not validate coordinates itself.
func Validate(r Route) error {
	if err := validate.Struct(r); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "validation error: %v", TranslateError(err))
	}
	return nil
}

// TranslateError renders validator errors as english messages.
func TranslateError(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return msgs
}

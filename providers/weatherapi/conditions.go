package weatherapi

// Coarse condition categories, named like OpenWeatherMap's "main" groups so
// both providers tally the same way
const (
	categoryClear        = "Clear"
	categoryClouds       = "Clouds"
	categoryMist         = "Mist"
	categoryFog          = "Fog"
	categoryDrizzle      = "Drizzle"
	categoryRain         = "Rain"
	categorySnow         = "Snow"
	categoryThunderstorm = "Thunderstorm"
)

// codeToCategory maps WeatherAPI condition codes to coarse categories.
// Complete list from https://www.weatherapi.com/docs/weather_conditions.json
var codeToCategory = map[int]string{
	// Sunny / Clear
	1000: categoryClear,

	// Partly cloudy, cloudy, overcast
	1003: categoryClouds,
	1006: categoryClouds,
	1009: categoryClouds,

	1030: categoryMist,

	// Fog, freezing fog
	1135: categoryFog,
	1147: categoryFog,

	// Drizzle, including freezing drizzle
	1072: categoryDrizzle,
	1150: categoryDrizzle,
	1153: categoryDrizzle,
	1168: categoryDrizzle,
	1171: categoryDrizzle,

	// Rain, freezing rain and rain showers
	1063: categoryRain,
	1180: categoryRain,
	1183: categoryRain,
	1186: categoryRain,
	1189: categoryRain,
	1192: categoryRain,
	1195: categoryRain,
	1198: categoryRain,
	1201: categoryRain,
	1240: categoryRain,
	1243: categoryRain,
	1246: categoryRain,

	// Snow, sleet and ice pellets
	1066: categorySnow,
	1069: categorySnow,
	1114: categorySnow,
	1117: categorySnow,
	1204: categorySnow,
	1207: categorySnow,
	1210: categorySnow,
	1213: categorySnow,
	1216: categorySnow,
	1219: categorySnow,
	1222: categorySnow,
	1225: categorySnow,
	1237: categorySnow,
	1249: categorySnow,
	1252: categorySnow,
	1255: categorySnow,
	1258: categorySnow,
	1261: categorySnow,
	1264: categorySnow,

	// Thunder
	1087: categoryThunderstorm,
	1273: categoryThunderstorm,
	1276: categoryThunderstorm,
	1279: categoryThunderstorm,
	1282: categoryThunderstorm,
}

// category returns the coarse category for a condition code. Unknown codes
// fall back to the condition text.
func category(code int, text string) string {
	if c, ok := codeToCategory[code]; ok {
		return c
	}
	return text
}

package validators

import "go.mongodb.org/mongo-driver/bson"

// weekSchema is the shared shape of a seven-entry weekly hours array,
// Monday first. Minutes are half-open, so close tops out one short of
// midnight on the open side of the range check done in the service.
var weekSchema = bson.M{
	"bsonType": "array",
	"minItems": 7,
	"maxItems": 7,
	"items": bson.M{
		"bsonType": "object",
		"required": []string{"open", "close", "is_closed"},
		"properties": bson.M{
			"open": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},
			"close": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},
			"is_closed": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var DefaultWeekValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"week",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"week": weekSchema,

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var SeasonalPeriodValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"start_date",
			"end_date",
			"label",
			"week",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"start_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"end_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"label": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"week": weekSchema,

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var DateOverrideValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"is_closed",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Overrides are keyed by the calendar date itself.
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"is_closed": bson.M{
				"bsonType": "bool",
			},

			"open": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},

			"close": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},

			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
		},
	},
}

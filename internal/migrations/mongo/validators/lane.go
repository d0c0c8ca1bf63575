package validators

import "go.mongodb.org/mongo-driver/bson"

var LaneValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"type",
			"is_active",
			"sort_order",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"indoor",
					"outdoor",
				},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"sort_order": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var LaneBlockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"lane_id",
			"date",
			"start",
			"end",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"lane_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"start": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1439,
			},

			// End is exclusive and may land exactly on midnight.
			"end": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  1440,
			},

			"reason": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
		},
	},
}

package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"lane_id",
			"date",
			"start",
			"end",
			"status",
			"requester_id",
			"created_at",
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

			// A booking may end exactly at midnight.
			"end": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  1440,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booked",
					"cancelled",
				},
			},

			"requester_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"expires_at",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// slot_<laneID>_<date>_<startMinute>
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  `^slot_[0-9a-fA-F]{24}_\d{4}-\d{2}-\d{2}_\d+$`,
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

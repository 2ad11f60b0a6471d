package generator

// responseSchema describes the body of a successful generate-questions call.
// "questions" may be missing or null; an empty set is judged by the session, not here.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "subject": {"type": "string"},
    "difficulty": {"type": "string"},
    "num_questions": {"type": "integer"},
    "questions": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "question", "options", "correct_answer"],
        "properties": {
          "id": {"type": "integer"},
          "question": {"type": "string"},
          "options": {
            "type": "object",
            "additionalProperties": {"type": "string"}
          },
          "correct_answer": {"type": "string"},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

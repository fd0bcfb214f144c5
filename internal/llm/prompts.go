package llm

const extractSchemasPrompt = `You are a knowledge extraction system. Read the following text and propose schemas for the physical objects and concepts it describes.

Respond ONLY with a JSON object mapping snake_case object names to schema objects. No markdown, no explanation. Each schema object has:
- "is_a": the parent concept (e.g. "physical_object", "substance")
- "properties": an object of scalar properties; use booleans for traits like "is_brittle", numbers for quantities like "mass_kg", strings for "material" and "state"

Example:
{"porcelain_doll":{"is_a":"physical_object","properties":{"material":"porcelain","is_brittle":true,"mass_kg":1.2}}}

If no objects can be extracted, respond with an empty object: {}

Text:
%s`

const topicSchemaPrompt = `From the context below, extract properties for the topic '%s' into a JSON object.
Your response MUST be only the JSON object, with an "is_a" key and a "properties" object of scalar values.
Include physical properties like "material", "is_brittle", "mass_kg", "state" when the context supports them.

Example: {"is_a":"physical_object","properties":{"material":"porcelain","is_brittle":true}}

CONTEXT:
%s

JSON for '%s':`

const objectEventPrompt = `You are a parsing engine. Analyze the sentence and extract event components into a valid JSON object. You must ONLY return the JSON object, no extra text.
The valid JSON keys are "actor", "action", "object", and "target". If a component is not present, its value must be an empty string.

Example:
SENTENCE: 'The ball is on the table.'
JSON: {"actor":"","action":"is on","object":"the ball","target":"the table"}

SENTENCE: '%s'
JSON:`

const toolUseEventPrompt = `You are a parsing engine. Analyze the sentence and extract event components into a valid JSON object. You must ONLY return the JSON object, no extra text.
The valid JSON keys are "actor", "action", "tool", and "target". If a component is not present, its value must be an empty string.

Example:
SENTENCE: 'A chef chops a carrot with a kitchen knife.'
JSON: {"actor":"a chef","action":"chops","tool":"a kitchen knife","target":"a carrot"}

SENTENCE: '%s'
JSON:`

const reportPrompt = `You are the narrator for a belief-revision engine. Write a short first-person report (2-4 sentences) of one reasoning cycle.

Prediction: %s
Reality: %s
Consistent: %t
Learning: %s

Respond with ONLY the report text. No formatting, no preamble.`

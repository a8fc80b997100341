package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DetectionPrompt instructs the vision model to classify an image and answer
// with a single JSON object.
const DetectionPrompt = `You are a specialized Hazard Detection AI. Your ONLY job is to detect 'Wildfire' or 'Flood' events.
Ignore all other disaster types.

Output a strict JSON object with exactly these three keys:

1. 'type': Return strictly one of these strings: 'Wildfire', 'Flood', or 'None'.

2. 'description':
   - IF WILDFIRE DETECTED: Provide a DETAILED, COMPREHENSIVE technical assessment including:
     * Smoke characteristics: color (white/black/grey), density, and direction of spread
     * Flame characteristics: intensity, height, color, and visible heat distortion
     * Terrain analysis: type of vegetation burning (forest, brush, grassland, urban structures)
     * Spread pattern: estimated direction and rate of fire progression
     * Environmental conditions: visible wind effects, time of day indicators
     * Infrastructure at risk: nearby buildings, roads, power lines, residential areas
     * Scale and scope: estimated affected area and proximity to populated zones

   - IF FLOOD DETECTED: Provide a DETAILED, COMPREHENSIVE technical assessment including:
     * Water characteristics: color (muddy/clear/debris-filled), turbidity, visible contaminants
     * Depth analysis: estimated water level using reference points (submerged vehicles, building floors, road signs)
     * Flow dynamics: current speed (static/slow/rushing), wave patterns, turbulence
     * Terrain impact: affected areas (streets, fields, buildings, infrastructure)
     * Debris and hazards: visible floating objects, structural damage, downed power lines
     * Infrastructure damage: submerged buildings, compromised roads, affected utilities
     * Scale and scope: estimated flooded area and depth variations

   - IF NONE: Return exactly '` + NoDisasterDescription + `'

3. 'confidence_level': An integer (0-100) representing your certainty based on visual evidence.

CRITICAL INSTRUCTIONS:
- For Wildfire/Flood: Your description must be thorough and detailed (minimum 100 words) as it will be used to generate emergency response plans.
- For None: Keep description minimal (the exact phrase above).
- Output ONLY the JSON object. Do not add markdown formatting, code blocks, or conversational text.`

// NoDisasterDescription is the exact description the detection prompt asks
// for when nothing is found.
const NoDisasterDescription = "No wildfire or flood detected."

const riskPromptTemplate = `You are an expert Incident Commander. Your ONLY job is to assess the risk level of the reported disaster.

Criteria:
- CRITICAL: Life-threatening, urban impact, fast spread.
- HIGH: Serious threat to property, large scale.
- MEDIUM: Moderate concern, contained.
- LOW: Minimal threat.

Output strictly ONE single word. Do not add punctuation or explanation.
Valid outputs: CRITICAL, HIGH, MEDIUM, LOW

Description of the threat:
{disaster}`

const actionPlanPromptTemplate = `You are a Senior Emergency Response Director creating an actionable response plan based on visual assessment.

CRITICAL CONSTRAINTS:
1. **Only use information from the disaster description** - do not fabricate specific numbers, costs, or resource quantities unless they can be reasonably estimated from the description.
2. **Acknowledge unknowns** - if key information is missing (population size, exact location, available resources), note this as "Requires field verification."
3. **Economic Feasibility** - recommend cost-effective solutions appropriate to the risk level:
   - CRITICAL/HIGH: Justify any expensive measures; prioritize life-safety
   - MEDIUM/LOW: Focus on standard municipal resources
4. **Policy Compliance** - follow FEMA/Government protocols (shelter-in-place vs evacuation based on threat)
5. **Resource Reality** - assume standard assets exist (Police, Fire, EMS, Public Transit) but avoid specifying exact quantities

RESPONSE FORMAT - Generate a focused 3-phase plan:

**Phase 1: Immediate Actions (0-2 hours)**
- Civilian alert method and safety instructions
- Evacuation vs shelter-in-place decision with rationale
- Priority zones/populations to address first
- Communication channels to activate

**Phase 2: Resource Deployment (2-24 hours)**
- Human resources needed (Police, Fire, EMS, Volunteers)
- Material resources (vehicles, supplies, equipment)
- Staging areas and logistics
- Medical/rescue operations if needed
- Note: Specify resource TYPES needed, not exact quantities unless clearly justified

**Phase 3: Containment & Recovery (24+ hours)**
- Hazard mitigation strategy
- Infrastructure protection priorities
- Damage assessment approach
- Economic relief pathways (FEMA assistance, local programs)
- Public communication plan

TONE & STYLE:
- Be concise and actionable (aim for 300-500 words total, not 1000+)
- Use clear bullet points, not elaborate tables
- Include conditional language ("If X is confirmed, then Y")
- Prioritize actions by importance, not comprehensiveness

INPUTS:
Disaster Description: {disaster}
Risk Level: {risk_level}

Generate the plan now, focusing on what CAN be determined from the available information while clearly noting what requires additional field assessment.`

// RiskPrompt embeds the description, JSON-quoted, into the risk rubric.
func RiskPrompt(description string) string {
	return strings.NewReplacer("{disaster}", quote(description)).Replace(riskPromptTemplate)
}

// ActionPlanPrompt embeds the description and severity into the plan template.
func ActionPlanPrompt(description string, risk Severity) string {
	return strings.NewReplacer(
		"{disaster}", quote(description),
		"{risk_level}", string(risk),
	).Replace(actionPlanPromptTemplate)
}

// quote renders s as a JSON string literal without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `"` + s + `"`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
